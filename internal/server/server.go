package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"

	"github.com/itskdhere/together-we/internal/identity"
	"github.com/itskdhere/together-we/internal/opportunity"
	"github.com/itskdhere/together-we/internal/stats"
	"github.com/itskdhere/together-we/internal/storage"
	"github.com/itskdhere/together-we/internal/store"
	"github.com/itskdhere/together-we/pkg/types"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	identity      *identity.Service
	opportunities *opportunity.Service
	stats         *stats.Service
	badgesRepo    *store.BadgeRepository
	badgeStorage  *storage.S3Storage

	cognitoClient *cognitoidentityprovider.Client
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient *cognitoidentityprovider.Client,
	identitySvc *identity.Service,
	opportunitySvc *opportunity.Service,
	statsSvc *stats.Service,
	badgesRepo *store.BadgeRepository,
	badgeStorage *storage.S3Storage,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		identity:      identitySvc,
		opportunities: opportunitySvc,
		stats:         statsSvc,
		badgesRepo:    badgesRepo,
		badgeStorage:  badgeStorage,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/session", s.handleGetSession, http.MethodGet)

		r.HandleFunc("/onboard/volunteer", s.handlePostOnboardVolunteer, http.MethodPost)
		r.HandleFunc("/onboard/organization", s.handlePostOnboardOrganization, http.MethodPost)

		r.HandleFunc("/organization/events", s.handleGetOrganizationEvents, http.MethodGet)
		r.HandleFunc("/organization/events", s.handlePostOrganizationEvent, http.MethodPost)
		r.HandleFunc("/organization/events", s.handleDeleteAllOrganizationEvents, http.MethodDelete)
		r.HandleFunc("/organization/events/:eventID", s.handlePatchOrganizationEvent, http.MethodPatch)
		r.HandleFunc("/organization/events/:eventID", s.handleDeleteOrganizationEvent, http.MethodDelete)
		r.HandleFunc("/organization/stats", s.handleGetOrganizationStats, http.MethodGet)
		r.HandleFunc("/organization/volunteers", s.handleGetVolunteerRoster, http.MethodGet)

		r.HandleFunc("/volunteer/events", s.handleGetBrowseEvents, http.MethodGet)
		r.HandleFunc("/volunteer/events/search", s.handleGetSearchEvents, http.MethodGet)
		r.HandleFunc("/volunteer/my-events", s.handleGetMyEvents, http.MethodGet)
		r.HandleFunc("/volunteer/stats", s.handleGetVolunteerStats, http.MethodGet)
		r.HandleFunc("/volunteer/badges", s.handleGetVolunteerBadges, http.MethodGet)
		r.HandleFunc("/volunteer/profile", s.handleGetVolunteerProfile, http.MethodGet)
		r.HandleFunc("/volunteer/profile", s.handlePatchVolunteerProfile, http.MethodPatch)

		r.HandleFunc("/events/:eventID/join", s.handlePostJoinEvent, http.MethodPost)
		r.HandleFunc("/events/:eventID/leave", s.handlePostLeaveEvent, http.MethodPost)

		r.HandleFunc("/badges", s.handleGetBadges, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondSuccess(w, http.StatusOK, "ok", nil)
}

func (s *Service) identityFromContext(ctx context.Context) (string, string, error) {
	civicID, ok := ctx.Value(contextKeyCivicID).(string)
	if !ok || civicID == "" {
		return "", "", types.ErrNotAuthenticated
	}

	email, _ := ctx.Value(contextKeyEmail).(string)

	return civicID, email, nil
}
