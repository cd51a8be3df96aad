package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/pagination"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpDays    = 7
	defaultMinAge = 18
	defaultMaxAge = 99
)

// UserRepository is the store contract the user service depends on
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id string, at time.Time) error
	CountDirectory(ctx context.Context, f models.UserFilter) (int, error)
	ListDirectory(ctx context.Context, f models.UserFilter, limit, offset int) ([]*models.User, error)
}

// LikeRepository is the store contract for the like relation
type LikeRepository interface {
	Get(ctx context.Context, likerID, likeeID string) (*models.Like, error)
	Create(ctx context.Context, like *models.Like) error
	RelatedIDs(ctx context.Context, userID string, dir models.LikeDirection) ([]string, error)
}

// UserService handles user-related business logic
type UserService struct {
	users     UserRepository
	likes     LikeRepository
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users UserRepository, likes LikeRepository, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		likes:     likes,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest carries the fields needed to create a user
type RegisterRequest struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	KnownAs     string    `json:"known_as"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
}

// Register creates a new user with a hashed password
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, apperrors.InvalidArg("username and password are required")
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		KnownAs:      req.KnownAs,
		City:         req.City,
		Country:      req.Country,
		Created:      now,
		LastActive:   now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed token with the user
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return "", nil, apperrors.ErrInvalidLogin
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidLogin
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// GetUser retrieves a single user
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateRequest carries the mutable profile fields
type UpdateRequest struct {
	KnownAs   string  `json:"known_as"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	PushToken *string `json:"push_token,omitempty"`
}

// UpdateUser updates a user's profile
func (s *UserService) UpdateUser(ctx context.Context, id string, req UpdateRequest) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.KnownAs = req.KnownAs
	user.City = req.City
	user.Country = req.Country
	if req.PushToken != nil {
		user.PushToken = req.PushToken
	}

	return s.users.Update(ctx, user)
}

// TouchLastActive marks the user as active now, best-effort
func (s *UserService) TouchLastActive(ctx context.Context, id string) error {
	return s.users.TouchLastActive(ctx, id, time.Now())
}

// UserParams carries the directory listing filters
type UserParams struct {
	Gender     string
	MinAge     int
	MaxAge     int
	OrderBy    string
	LikeFilter models.LikeDirection // empty for no narrowing
	Page       pagination.Request
}

// ListUsers pages through the user directory. The requester is always
// excluded; an unspecified gender resolves to the opposite of the
// requester's own.
func (s *UserService) ListUsers(ctx context.Context, requesterID string, params UserParams) (*pagination.Page[*models.User], error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	gender := params.Gender
	if gender == "" {
		gender = "female"
		if requester.Gender == "female" {
			gender = "male"
		}
	}

	filter := models.UserFilter{
		ExcludeID: requesterID,
		Gender:    gender,
		OrderBy:   params.OrderBy,
	}

	minAge, maxAge := params.MinAge, params.MaxAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}
	// The default 18-99 window means "no age filter" and is skipped rather
	// than evaluated as a date range, so boundary ages are never lost to
	// date rounding.
	if minAge != defaultMinAge || maxAge != defaultMaxAge {
		today := time.Now().Truncate(24 * time.Hour)
		minDob := today.AddDate(-(maxAge + 1), 0, 0)
		maxDob := today.AddDate(-minAge, 0, 0)
		filter.MinDob = &minDob
		filter.MaxDob = &maxDob
	}

	if params.LikeFilter == models.Likers || params.LikeFilter == models.Likees {
		ids, err := s.likes.RelatedIDs(ctx, requesterID, params.LikeFilter)
		if err != nil {
			return nil, err
		}
		filter.IDs = ids
	}

	src := pagination.FuncSource[*models.User]{
		CountFn: func(ctx context.Context) (int, error) {
			return s.users.CountDirectory(ctx, filter)
		},
		SliceFn: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			return s.users.ListDirectory(ctx, filter, limit, offset)
		},
	}
	return pagination.Paginate(ctx, src, params.Page.Normalize())
}

// Like records that liker likes likee. Liking twice conflicts; liking an
// unknown user is not found.
func (s *UserService) Like(ctx context.Context, likerID, likeeID string) error {
	if likerID == likeeID {
		return apperrors.ErrSelfLike
	}

	existing, err := s.likes.Get(ctx, likerID, likeeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.ErrAlreadyLiked
	}

	if _, err := s.users.GetByID(ctx, likeeID); err != nil {
		return err
	}

	return s.likes.Create(ctx, &models.Like{
		LikerID: likerID,
		LikeeID: likeeID,
		Created: time.Now(),
	})
}
