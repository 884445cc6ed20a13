package models

import "testing"

func TestRaceResultEqual(t *testing.T) {
	fl44 := 44
	fl81 := 81
	base := RaceResult{
		RaceID:           3,
		Positions:        []int{1, 4, 16},
		FastestLapDriver: &fl44,
		DNFDrivers:       []int{11, 55},
		Completed:        true,
	}

	tests := []struct {
		name  string
		other RaceResult
		want  bool
	}{
		{"identical", RaceResult{RaceID: 3, Positions: []int{1, 4, 16}, FastestLapDriver: &fl44, DNFDrivers: []int{11, 55}, Completed: true}, true},
		{"dnf order does not matter", RaceResult{RaceID: 3, Positions: []int{1, 4, 16}, FastestLapDriver: &fl44, DNFDrivers: []int{55, 11}, Completed: true}, true},
		{"finishing order matters", RaceResult{RaceID: 3, Positions: []int{4, 1, 16}, FastestLapDriver: &fl44, DNFDrivers: []int{11, 55}, Completed: true}, false},
		{"different race", RaceResult{RaceID: 4, Positions: []int{1, 4, 16}, FastestLapDriver: &fl44, DNFDrivers: []int{11, 55}, Completed: true}, false},
		{"fastest lap changed", RaceResult{RaceID: 3, Positions: []int{1, 4, 16}, FastestLapDriver: &fl81, DNFDrivers: []int{11, 55}, Completed: true}, false},
		{"fastest lap dropped", RaceResult{RaceID: 3, Positions: []int{1, 4, 16}, DNFDrivers: []int{11, 55}, Completed: true}, false},
		{"dnf added", RaceResult{RaceID: 3, Positions: []int{1, 4, 16}, FastestLapDriver: &fl44, DNFDrivers: []int{11, 55, 63}, Completed: true}, false},
		{"fewer finishers", RaceResult{RaceID: 3, Positions: []int{1, 4}, FastestLapDriver: &fl44, DNFDrivers: []int{11, 55}, Completed: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.other.Equal(base); got != tt.want {
				t.Errorf("reverse Equal = %v, want %v", got, tt.want)
			}
		})
	}
}
