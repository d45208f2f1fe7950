// Package commerce turns staged drafts and finished questionnaires into
// committed studio records.
//
// Submission failures never escape as errors: SaveAsTemplate and
// PublishWizardProduct report a Result with a generic message and log the
// cause.
package commerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/id"
	"github.com/louisbranch/printstudio/internal/platform/slug"
	"github.com/louisbranch/printstudio/internal/platform/timeouts"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

const tracerName = "github.com/louisbranch/printstudio/internal/services/studio/commerce"

// Messages returned in failed results.
const (
	MessageUnauthorized   = "Unauthorized"
	MessageTemplateFailed = "Failed to save template"
	MessagePublishFailed  = "Failed to publish product"
)

// Result reports the outcome of a submission.
type Result struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	// Code picks the HTTP status; callers only see Success and Error.
	Code      apperrors.Code `json:"-"`
	ProductID string         `json:"productId,omitempty"`
	DesignID  string         `json:"designId,omitempty"`
}

// Stores is the persistence surface the service writes through.
type Stores struct {
	Tenants  storage.TenantStore
	Users    storage.UserStore
	Designs  storage.DesignStore
	Products storage.ProductStore
}

// Config configures a Service.
type Config struct {
	Stores Stores
	Logger zerolog.Logger
	// NewID generates record identifiers; nil uses id.NewID.
	NewID func() (string, error)
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Service commits drafts for authenticated users.
type Service struct {
	stores    Stores
	logger    zerolog.Logger
	newID     func() (string, error)
	tracer    trace.Tracer
	provision singleflight.Group
}

// New returns a Service.
func New(cfg Config) (*Service, error) {
	stores := cfg.Stores
	if stores.Tenants == nil || stores.Users == nil || stores.Designs == nil || stores.Products == nil {
		return nil, fmt.Errorf("commerce stores are required")
	}
	newID := cfg.NewID
	if newID == nil {
		newID = id.NewID
	}
	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Service{
		stores: stores,
		logger: cfg.Logger.With().Str("component", "commerce").Logger(),
		newID:  newID,
		tracer: provider.Tracer(tracerName),
	}, nil
}

// EnsureTenant resolves the principal's tenant, provisioning one on first
// use. Concurrent calls for one user share a single provisioning attempt.
func (s *Service) EnsureTenant(ctx context.Context, principal identity.Principal) (storage.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "commerce.EnsureTenant", trace.WithAttributes(attribute.String("user.id", principal.UserID)))
	defer span.End()

	tenant, err := s.ensureTenant(ctx, principal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ensure tenant")
		return storage.Tenant{}, err
	}
	span.SetAttributes(attribute.String("tenant.id", tenant.ID))
	return tenant, nil
}

func (s *Service) ensureTenant(ctx context.Context, principal identity.Principal) (storage.Tenant, error) {
	userID := strings.TrimSpace(principal.UserID)
	if userID == "" {
		return storage.Tenant{}, apperrors.New(apperrors.CodeUnauthorized, "authentication required")
	}
	value, err, _ := s.provision.Do(userID, func() (any, error) {
		// Provisioning outlives the cancellation of whichever caller started it.
		provisionCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Submission)
		defer cancel()
		candidate, err := s.tenantCandidate(principal)
		if err != nil {
			return storage.Tenant{}, err
		}
		return s.stores.Tenants.EnsureTenant(provisionCtx, storage.Identity{
			UserID:      userID,
			DisplayName: principal.Name,
			Email:       principal.Email,
		}, candidate)
	})
	if err != nil {
		return storage.Tenant{}, apperrors.Wrap(apperrors.CodeProvisioningFailure, "ensure tenant", err)
	}
	return value.(storage.Tenant), nil
}

func (s *Service) tenantCandidate(principal identity.Principal) (storage.Tenant, error) {
	tenantID, err := s.newID()
	if err != nil {
		return storage.Tenant{}, fmt.Errorf("generate tenant id: %w", err)
	}
	suffix := strings.ToLower(tenantID)
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	name := "My Studio"
	if display := strings.TrimSpace(principal.Name); display != "" {
		name = display + "'s Studio"
	}
	base := slug.Make(name)
	if base == "" {
		base = "studio"
	}
	return storage.Tenant{
		ID:   tenantID,
		Name: name,
		Slug: base + "-" + suffix,
		Tier: storage.TierFree,
	}, nil
}

// failure logs err and returns the generic failed Result.
func (s *Service) failure(span trace.Span, op string, message string, err error) Result {
	code := apperrors.CodeOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	event := s.logger.Error()
	if code == apperrors.CodeUnauthorized {
		event = s.logger.Warn()
		message = MessageUnauthorized
	}
	event.Err(err).Str("op", op).Str("code", string(code)).Msg("submission failed")
	return Result{Success: false, Error: message, Code: code}
}
