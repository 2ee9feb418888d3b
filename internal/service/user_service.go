package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mmynk/ledger/internal/auth"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
	"github.com/mmynk/ledger/internal/uploads"
)

// Picture is an uploaded image awaiting storage.
type Picture struct {
	Filename string
	Body     io.Reader
}

// Session is returned by Register and Login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService handles accounts and sessions.
type UserService struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
	pictures      *uploads.Store
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store, authenticator auth.Authenticator, jwt *auth.JWTManager, pictures *uploads.Store) *UserService {
	return &UserService{
		store:         store,
		authenticator: authenticator,
		jwt:           jwt,
		pictures:      pictures,
	}
}

// Register creates an account, stores the optional picture and returns a session.
func (s *UserService) Register(ctx context.Context, name, email, password string, picture *Picture) (*Session, error) {
	slog.InfoContext(ctx, "Register request received", "email", email)

	// Validate before touching disk so a rejected registration leaves no file.
	if err := s.authenticator.ValidateCredential(password); err != nil {
		return nil, NewError(CodeInvalidArgument, err)
	}

	var picturePath string
	if picture != nil {
		path, err := s.savePicture(picture)
		if err != nil {
			return nil, err
		}
		picturePath = path
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		if picturePath != "" {
			s.pictures.Remove(picturePath)
		}
		return nil, authError(err)
	}

	if picturePath != "" {
		if err := s.store.UpdateProfilePicture(ctx, user.ID, picturePath); err != nil {
			slog.ErrorContext(ctx, "Register failed to attach picture", "user_id", user.ID, "error", err)
			return nil, NewError(CodeInternal, err)
		}
		user.ProfilePicture = picturePath
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID)
	return s.session(user)
}

// Login verifies credentials and returns a session.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, Errorf(CodeInvalidArgument, "Email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.WarnContext(ctx, "Login failed", "email", email)
		return nil, authError(err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return s.session(user)
}

// GetUser returns the account for userID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// UpdateProfilePicture replaces userID's picture. The previous file is left
// for the upload janitor.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID string, picture *Picture) (*models.User, error) {
	if picture == nil {
		return nil, Errorf(CodeInvalidArgument, "Profile picture is required")
	}
	path, err := s.savePicture(picture)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateProfilePicture(ctx, userID, path); err != nil {
		s.pictures.Remove(path)
		return nil, storeError(err, "User not found")
	}

	slog.InfoContext(ctx, "Profile picture updated", "user_id", userID, "path", path)
	return s.GetUser(ctx, userID)
}

func (s *UserService) savePicture(p *Picture) (string, error) {
	if s.pictures == nil {
		return "", Errorf(CodeInvalidArgument, "Uploads are disabled")
	}
	path, err := s.pictures.Save(p.Body, p.Filename)
	switch {
	case errors.Is(err, uploads.ErrTooLarge), errors.Is(err, uploads.ErrUnsupportedType), errors.Is(err, uploads.ErrEmpty):
		return "", NewError(CodeInvalidArgument, err)
	case err != nil:
		return "", NewError(CodeInternal, err)
	}
	return path, nil
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, NewError(CodeInternal, err)
	}
	return &Session{Token: token, User: user}, nil
}

func authError(err error) *Error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return NewError(CodeUnauthenticated, errors.New("Invalid credentials"))
	case errors.Is(err, auth.ErrEmailExists):
		return NewError(CodeAlreadyExists, errors.New("User already exists"))
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrMissingFields):
		return NewError(CodeInvalidArgument, err)
	default:
		return NewError(CodeInternal, err)
	}
}
