package apperrors

// Domain errors shared by services and repositories.
var (
	ErrUsernameTaken    = AlreadyExists("username is already taken")
	ErrUserNotFound     = NotFound("user not found")
	ErrMessageNotFound  = NotFound("message not found")
	ErrPhotoNotFound    = NotFound("photo not found")
	ErrAlreadyLiked     = AlreadyExists("you already like this user")
	ErrNotMessageParty  = Forbidden("user is not a party to this message")
	ErrNotRecipient     = Forbidden("only the recipient can mark a message as read")
	ErrInvalidLogin     = Unauthorized("invalid username or password")
	ErrInvalidPageSize  = InvalidArg("page size must be at least 1")
	ErrSelfLike         = InvalidArg("you cannot like yourself")
	ErrSelfMessage      = InvalidArg("you cannot message yourself")
	ErrEmptyMessageBody = InvalidArg("message content cannot be empty")
)
