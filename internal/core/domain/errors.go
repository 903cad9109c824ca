package domain

import "errors"

// Authentication failures reported by the identity provider.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrRateLimited        = errors.New("too many attempts")
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileExists        = errors.New("profile already exists")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrAreaNotFound         = errors.New("area not found")
	ErrForbidden            = errors.New("access forbidden")
	ErrUnauthenticated      = errors.New("not signed in")
)

// IsAuthError reports whether err is one of the identity provider failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrEmailInUse) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrRateLimited)
}

// IsNotFound reports whether err means the requested record is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrAnnouncementNotFound) ||
		errors.Is(err, ErrAreaNotFound)
}

// ErrorCode returns the stable wire code for a known error, or "" when err is
// transient or unknown.
func ErrorCode(err error) string {
	for code, target := range codes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}

// FromCode maps a wire code back to its sentinel. Unknown codes return nil.
func FromCode(code string) error {
	return codes[code]
}

var codes = map[string]error{
	"invalid-credentials":    ErrInvalidCredentials,
	"invalid-email":          ErrInvalidEmail,
	"email-in-use":           ErrEmailInUse,
	"weak-password":          ErrWeakPassword,
	"rate-limited":           ErrRateLimited,
	"profile-not-found":      ErrProfileNotFound,
	"profile-exists":         ErrProfileExists,
	"announcement-not-found": ErrAnnouncementNotFound,
	"area-not-found":         ErrAreaNotFound,
	"forbidden":              ErrForbidden,
	"unauthenticated":        ErrUnauthenticated,
}
