package profile

import "context"

// ProfileService defines business logic for profile management
type ProfileService interface {
	CreateProfile(ctx context.Context, req CreateProfileRequest) (ProfileResponse, error)
	GetProfile(ctx context.Context, id string) (ProfileResponse, error)
	GetMyProfile(ctx context.Context) (ProfileResponse, error)

	// GetByEmployeeID resolves a DAG##### id, used by the kiosk lookup
	GetByEmployeeID(ctx context.Context, employeeID string) (ProfileResponse, error)

	ListProfiles(ctx context.Context, filter ProfileFilter) (ListProfileResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error)
	UpdateMyProfile(ctx context.Context, req UpdateMyProfileRequest) (ProfileResponse, error)
	ChangeMyPassword(ctx context.Context, req ChangePasswordRequest) error
	DeactivateProfile(ctx context.Context, id string) (ProfileResponse, error)

	// AssignMissingEmployeeIDs backfills ids for employees created without one
	AssignMissingEmployeeIDs(ctx context.Context) (AssignEmployeeIDsResponse, error)
	PreviewNextEmployeeID(ctx context.Context) (NextEmployeeIDResponse, error)
}
