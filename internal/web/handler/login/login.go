package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/web/handler"
	"github.com/eter-store/eter-admin/internal/web/session"
)

const (
	// Path is the path to the login endpoint below the api group.
	Path = "/login"
)

// Request is the login body.
type Request struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=255"`
}

// UserInfo is returned after a successful login.
type UserInfo struct {
	ID       uint64 `json:"id,string"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Response is the body of a successful login.
type Response struct {
	Success bool     `json:"success"`
	User    UserInfo `json:"user"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	users     *auth.LocalProvider
	sessions  *session.Store
	validator *validator.Validate
}

// New creates the login handler.
func New(cfg *config.Config, users *auth.LocalProvider, sessions *session.Store) *Service {
	if cfg == nil || users == nil || sessions == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
	}

	return &Service{
		cfg:       cfg,
		users:     users,
		sessions:  sessions,
		validator: validator.New(),
	}
}

// Init registers the login route.
func (s *Service) Init(router fiber.Router) {
	router.Post(Path, s.Post)
}

// Post handles the login submission.
func (s *Service) Post(c fiber.Ctx) error {
	var req Request

	if err := c.Bind().JSON(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	user, err := s.users.Authenticate(c.Context(), req.Username, req.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Warn().Str("username", req.Username).Str("ip", c.IP()).Msg("failed login")
		return handler.JSONError(c, fiber.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return handler.JSONError(c, fiber.StatusUnauthorized, ErrAccountDisabled.Error())
	case err != nil:
		log.Error().Err(err).Str("username", req.Username).Msg("failed to authenticate user")
		return handler.JSONError(c, fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	sessionID, err := s.sessions.Create(session.Data{UserID: user.ID, Username: user.Username})
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to write session")
		return handler.JSONError(c, fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Webserver.Session.CookieName,
		Value:    sessionID,
		Domain:   s.cfg.Webserver.Domain,
		Path:     handler.RootPath,
		MaxAge:   int(s.sessions.Expiry().Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")

	return c.JSON(Response{
		Success: true,
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role.Name,
		},
	})
}
