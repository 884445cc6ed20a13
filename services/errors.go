package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrDisplayNameRequired   = errors.New("display name is required")
	ErrPodiumRequired        = errors.New("prediction must pick at least one finisher")
	ErrPodiumTooLong         = errors.New("prediction cannot pick more than ten finishers")
	ErrPodiumDuplicateDriver = errors.New("prediction picks the same driver twice")
	ErrUnknownDriver         = errors.New("prediction references an unknown driver")
	ErrPredictionLocked      = errors.New("predictions are locked once the race starts")
	ErrResultIncomplete      = errors.New("race result must classify at least one finisher")
	ErrRaceInvalidStatus     = errors.New("invalid race status provided")
	ErrRaceStatusTransition  = errors.New("invalid race status transition")
	ErrLeagueNameRequired    = errors.New("league name is required")

	// Conflicts
	ErrEmailTaken           = errors.New("email address is already in use")
	ErrRaceNameConflict     = errors.New("race name already exists")
	ErrTeamNameConflict     = errors.New("team name already exists")
	ErrDriverNumberConflict = errors.New("driver number already exists")
	ErrLeagueNameConflict   = errors.New("league name already exists")
	ErrAlreadyLeagueMember  = errors.New("user is already a member of this league")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrNotLeagueOwner     = errors.New("only the league owner can perform this action")
	ErrOwnerCannotLeave   = errors.New("the league owner cannot leave their own league")
	ErrLeaguePrivate      = errors.New("league is private, an invite is required to join")
	ErrInviteInvalid      = errors.New("invite link is invalid or has expired")

	// Entity-specific lookups
	ErrUserNotFound         = errors.New("user not found")
	ErrDriverNotFound       = errors.New("driver not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrRaceNotFound         = errors.New("race not found")
	ErrPredictionNotFound   = errors.New("prediction not found")
	ErrLeagueNotFound       = errors.New("league not found")
	ErrLeagueMemberNotFound = errors.New("league member not found")
)
