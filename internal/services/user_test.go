package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/pagination"
	"github.com/YossiBenZaken/DatingApp/internal/repository/inmemory"
	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/stretchr/testify/require"
)

func newUserService() (*services.UserService, *inmemory.UserRepository, *inmemory.LikeRepository) {
	users := inmemory.NewUserRepository()
	likes := inmemory.NewLikeRepository()
	return services.NewUserService(users, likes, "test-secret"), users, likes
}

func register(t *testing.T, svc *services.UserService, username, gender string, age int) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), services.RegisterRequest{
		Username:    username,
		Password:    "password123",
		Gender:      gender,
		DateOfBirth: time.Now().AddDate(-age, 0, -1),
		KnownAs:     username,
	})
	require.NoError(t, err)
	return user
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, services.RegisterRequest{
		Username:    "  Alice  ",
		Password:    "password123",
		Gender:      "female",
		DateOfBirth: time.Now().AddDate(-28, 0, 0),
		KnownAs:     "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, user.ID)

	token, logged, err := svc.Login(ctx, "ALICE", "password123")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	require.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	_, _, err = svc.Login(ctx, "nobody", "password123")
	require.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}

func TestUserService_RegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	register(t, svc, "alice", "female", 28)

	_, err := svc.Register(ctx, services.RegisterRequest{
		Username:    "Alice",
		Password:    "other-password",
		Gender:      "female",
		DateOfBirth: time.Now().AddDate(-30, 0, 0),
	})
	require.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))

	_, err = svc.Register(ctx, services.RegisterRequest{Username: "", Password: "x"})
	require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestUserService_ListUsersDefaults(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	alice := register(t, svc, "alice", "female", 28)
	bob := register(t, svc, "bob", "male", 30)
	carol := register(t, svc, "carol", "female", 35)
	register(t, svc, "dave", "male", 45)

	// a female requester sees males by default, never herself
	page, err := svc.ListUsers(ctx, alice.ID, services.UserParams{})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	for _, u := range page.Items {
		require.Equal(t, "male", u.Gender)
		require.NotEqual(t, alice.ID, u.ID)
	}

	// a male requester sees females by default
	page, err = svc.ListUsers(ctx, bob.ID, services.UserParams{})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	for _, u := range page.Items {
		require.Equal(t, "female", u.Gender)
	}

	// explicit gender overrides the default and still excludes the requester
	page, err = svc.ListUsers(ctx, alice.ID, services.UserParams{Gender: "female"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, carol.ID, page.Items[0].ID)

	// the default 18-99 window does not filter anyone out
	page, err = svc.ListUsers(ctx, alice.ID, services.UserParams{MinAge: 18, MaxAge: 99})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)

	// an explicit window narrows by age: bob is 30, dave at 45 falls out
	page, err = svc.ListUsers(ctx, alice.ID, services.UserParams{MinAge: 25, MaxAge: 35})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, bob.ID, page.Items[0].ID)
}

func TestUserService_ListUsersLikeFilter(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	alice := register(t, svc, "alice", "female", 28)
	bob := register(t, svc, "bob", "male", 30)
	dave := register(t, svc, "dave", "male", 45)

	require.NoError(t, svc.Like(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Like(ctx, dave.ID, alice.ID))

	// users alice has liked
	page, err := svc.ListUsers(ctx, alice.ID, services.UserParams{LikeFilter: models.Likees})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, bob.ID, page.Items[0].ID)

	// users who liked alice
	page, err = svc.ListUsers(ctx, alice.ID, services.UserParams{LikeFilter: models.Likers})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, dave.ID, page.Items[0].ID)

	// nobody has liked bob, so the narrowed directory is empty
	page, err = svc.ListUsers(ctx, bob.ID, services.UserParams{LikeFilter: models.Likers})
	require.NoError(t, err)
	require.Equal(t, 0, page.TotalCount)
	require.Empty(t, page.Items)
}

func TestUserService_ListUsersOrdering(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()

	alice := register(t, svc, "alice", "female", 28)
	bob := register(t, svc, "bob", "male", 30)
	carl := register(t, svc, "carl", "male", 32)

	// bob joined before carl but was active more recently
	now := time.Now()
	bob.Created = now.AddDate(0, 0, -10)
	require.NoError(t, users.Update(ctx, bob))
	carl.Created = now.AddDate(0, 0, -5)
	require.NoError(t, users.Update(ctx, carl))
	require.NoError(t, users.TouchLastActive(ctx, bob.ID, now))
	require.NoError(t, users.TouchLastActive(ctx, carl.ID, now.Add(-time.Hour)))

	page, err := svc.ListUsers(ctx, alice.ID, services.UserParams{})
	require.NoError(t, err)
	require.Equal(t, []string{bob.ID, carl.ID}, idsOf(page))

	page, err = svc.ListUsers(ctx, alice.ID, services.UserParams{OrderBy: models.OrderByCreated})
	require.NoError(t, err)
	require.Equal(t, []string{carl.ID, bob.ID}, idsOf(page))
}

func idsOf(page *pagination.Page[*models.User]) []string {
	ids := make([]string, 0, len(page.Items))
	for _, u := range page.Items {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestUserService_Like(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	alice := register(t, svc, "alice", "female", 28)
	bob := register(t, svc, "bob", "male", 30)

	require.NoError(t, svc.Like(ctx, alice.ID, bob.ID))

	err := svc.Like(ctx, alice.ID, bob.ID)
	require.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))

	err = svc.Like(ctx, alice.ID, alice.ID)
	require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	err = svc.Like(ctx, alice.ID, "no-such-user")
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	alice := register(t, svc, "alice", "female", 28)

	token := "device-token-9"
	err := svc.UpdateUser(ctx, alice.ID, services.UpdateRequest{
		KnownAs:   "Ali",
		City:      "Tel Aviv",
		Country:   "Israel",
		PushToken: &token,
	})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Ali", got.KnownAs)
	require.Equal(t, "Tel Aviv", got.City)
	require.NotNil(t, got.PushToken)
	require.Equal(t, token, *got.PushToken)

	err = svc.UpdateUser(ctx, "no-such-user", services.UpdateRequest{})
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
