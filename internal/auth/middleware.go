package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/config"
	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// Gin context keys read by the handlers
const (
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
)

// Development headers, honoured only when no token parser is configured
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderIsAdmin  = "X-User-Admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the caller as described by the identity provider.
type Principal struct {
	ExternalID string
	Username   string
	IsAdmin    bool
}

type TokenParser interface {
	Parse(token string) (*Principal, error)
}

type casdoorParser struct {
	client *casdoorsdk.Client
}

func NewCasdoorParser(cfg config.CasdoorConfig) TokenParser {
	return &casdoorParser{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.OrganizationName,
			cfg.ApplicationName,
		),
	}
}

func (p *casdoorParser) Parse(token string) (*Principal, error) {
	claims, err := p.client.ParseJwtToken(token)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	externalID := claims.User.Id
	if externalID == "" {
		externalID = claims.User.Owner + "/" + claims.User.Name
	}
	return &Principal{
		ExternalID: externalID,
		Username:   claims.User.Name,
		IsAdmin:    claims.User.IsAdmin,
	}, nil
}

// Middleware resolves the caller to a local user row. Requests without
// credentials pass through anonymously; handlers decide whether that is allowed.
type Middleware struct {
	parser TokenParser
	users  repositories.UserRepository
	logger utils.Logger
	now    func() time.Time
}

// NewMiddleware builds the identity middleware. A nil parser switches to the
// development header mode.
func NewMiddleware(parser TokenParser, users repositories.UserRepository, logger utils.Logger) *Middleware {
	return &Middleware{
		parser: parser,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.principal(c)
		if err != nil {
			m.logger.Warn("Rejected credentials", "error", err, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		if principal == nil {
			c.Next()
			return
		}

		user, err := m.resolveUser(c.Request.Context(), principal)
		if err != nil {
			m.logger.LogError(err, "Failed to resolve user", "external_id", principal.ExternalID)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Identity store unavailable"})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextIsAdmin, user.IsAdmin)
		c.Next()
	}
}

func (m *Middleware) principal(c *gin.Context) (*Principal, error) {
	if m.parser == nil {
		externalID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if externalID == "" {
			return nil, nil
		}
		username := c.GetHeader(HeaderUserName)
		if username == "" {
			username = externalID
		}
		return &Principal{
			ExternalID: externalID,
			Username:   username,
			IsAdmin:    strings.EqualFold(c.GetHeader(HeaderIsAdmin), "true"),
		}, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, nil
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	return m.parser.Parse(strings.TrimSpace(token))
}

func (m *Middleware) resolveUser(ctx context.Context, principal *Principal) (*models.User, error) {
	now := m.now()
	user := &models.User{
		ExternalID:  principal.ExternalID,
		Username:    principal.Username,
		IsAdmin:     principal.IsAdmin,
		LastLoginAt: &now,
	}
	if err := m.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
