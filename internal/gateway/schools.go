package gateway

import (
	"context"
	"time"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/model"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	"github.com/google/uuid"
)

// GetSchools lists the authoritative school directory. Online-only: the full
// list exists nowhere else.
func (g *Gateway) GetSchools(ctx context.Context) ([]model.School, error) {
	if !g.oracle.IsOnline(ctx) {
		return nil, apperrors.ErrNoConnection
	}

	schools, err := g.remote.GetSchools(ctx)
	if err != nil {
		return nil, err
	}

	for i := range schools {
		schools[i] = schools[i].Sanitized()
	}
	return schools, nil
}

// Login authenticates against the remote directory when online, or against
// the cached school row when offline. Both paths apply the same plaintext
// equality check, and both return the school with its credential blanked.
func (g *Gateway) Login(ctx context.Context, email, password string) (*model.School, error) {
	if email == "" || password == "" {
		return nil, apperrors.ValidationError{Field: "email", Value: email, Message: "email and password are required"}
	}

	var school *model.School
	var err error

	if g.oracle.IsOnline(ctx) {
		school, err = g.remote.GetSchoolByEmail(ctx, email)
	} else {
		school, err = g.local.GetSchoolByEmail(ctx, email)
	}
	if err != nil {
		// Absent account and wrong password are indistinguishable to the caller.
		return nil, apperrors.ErrInvalidCredentials
	}

	if school.Password != password {
		return nil, apperrors.ErrInvalidCredentials
	}

	g.setSession(&Session{
		SchoolID:   school.ID,
		SchoolName: school.Name,
		Email:      school.Email,
		LoggedInAt: time.Now().UTC(),
	})

	g.log.Info().Str("school_id", school.ID).Msg("Login succeeded")

	sanitized := school.Sanitized()
	return &sanitized, nil
}

// SetTeacherName registers this device's teacher for the logged-in school.
// The name is stamped onto attendance marks from then on.
func (g *Gateway) SetTeacherName(ctx context.Context, name string) error {
	if name == "" {
		return apperrors.ValidationError{Field: "name", Value: name, Message: "teacher name is required"}
	}

	session, err := g.Session()
	if err != nil {
		return err
	}

	return g.local.UpsertTeacherIdentity(ctx, &model.TeacherIdentity{
		ID:       uuid.NewString(),
		SchoolID: session.SchoolID,
		Name:     name,
	})
}
