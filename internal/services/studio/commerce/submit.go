package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/timeouts"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/onboarding"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
	"github.com/louisbranch/printstudio/internal/services/studio/wizard"
)

// SaveAsTemplate stores the draft as a template design for the signed-in
// user's tenant.
func (s *Service) SaveAsTemplate(ctx context.Context, draft wizard.State) Result {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Submission)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "commerce.SaveAsTemplate", trace.WithAttributes(attribute.String("draft.id", draft.DraftID)))
	defer span.End()

	design, err := s.saveAsTemplate(ctx, draft)
	if err != nil {
		return s.failure(span, "save_template", MessageTemplateFailed, err)
	}
	s.logger.Info().Str("design_id", design.ID).Str("tenant_id", design.TenantID).Str("draft_id", draft.DraftID).Msg("template saved")
	return Result{Success: true, DesignID: design.ID}
}

func (s *Service) saveAsTemplate(ctx context.Context, draft wizard.State) (storage.Design, error) {
	principal, err := identity.Require(ctx)
	if err != nil {
		return storage.Design{}, err
	}
	tenant, err := s.EnsureTenant(ctx, principal)
	if err != nil {
		return storage.Design{}, err
	}
	design, err := s.designRecord(principal, tenant, draft)
	if err != nil {
		return storage.Design{}, err
	}
	saved, err := s.stores.Designs.SaveTemplate(ctx, design)
	if err != nil {
		return storage.Design{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "save template design", err)
	}
	return saved, nil
}

func (s *Service) designRecord(principal identity.Principal, tenant storage.Tenant, draft wizard.State) (storage.Design, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return storage.Design{}, apperrors.Wrap(apperrors.CodeInvalidInput, "encode draft", err)
	}
	designID, err := s.newID()
	if err != nil {
		return storage.Design{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "generate design id", err)
	}
	imageURL := draft.Design.ImageURL
	if imageURL == "" {
		imageURL = draft.Design.PreviewURL
	}
	return storage.Design{
		ID:         designID,
		TenantID:   tenant.ID,
		UserID:     principal.UserID,
		DraftID:    draft.DraftID,
		PromptText: draft.DesignTitle(),
		ImageURL:   imageURL,
		DesignData: payload,
		PreviewURL: draft.Design.PreviewURL,
	}, nil
}

// PublishWizardProduct publishes the draft as a product with variants and a
// published design, all in one write.
func (s *Service) PublishWizardProduct(ctx context.Context, draft wizard.State) Result {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Submission)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "commerce.PublishWizardProduct", trace.WithAttributes(attribute.String("draft.id", draft.DraftID)))
	defer span.End()

	product, created, err := s.publish(ctx, draft)
	if err != nil {
		return s.failure(span, "publish_product", MessagePublishFailed, err)
	}
	span.SetAttributes(attribute.String("product.id", product.ID), attribute.Bool("product.created", created))
	s.logger.Info().
		Str("product_id", product.ID).
		Str("tenant_id", product.TenantID).
		Str("draft_id", draft.DraftID).
		Bool("created", created).
		Msg("product published")
	return Result{Success: true, ProductID: product.ID}
}

func (s *Service) publish(ctx context.Context, draft wizard.State) (storage.Product, bool, error) {
	principal, err := identity.Require(ctx)
	if err != nil {
		return storage.Product{}, false, err
	}
	tenant, err := s.EnsureTenant(ctx, principal)
	if err != nil {
		return storage.Product{}, false, err
	}
	publication, err := s.publication(principal, tenant, draft)
	if err != nil {
		return storage.Product{}, false, err
	}
	product, created, err := s.stores.Products.PublishProduct(ctx, publication)
	if err != nil {
		return storage.Product{}, false, apperrors.Wrap(apperrors.CodePersistenceFailure, "publish product", err)
	}
	return product, created, nil
}

type variantMetadata struct {
	VariantID   string `json:"variantId,omitempty"`
	CostCents   int64  `json:"costCents"`
	ProfitCents int64  `json:"profitCents"`
}

func (s *Service) publication(principal identity.Principal, tenant storage.Tenant, draft wizard.State) (storage.Publication, error) {
	plan := wizard.PublishPlan(draft)
	design, err := s.designRecord(principal, tenant, draft)
	if err != nil {
		return storage.Publication{}, err
	}
	productID, err := s.newID()
	if err != nil {
		return storage.Publication{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "generate product id", err)
	}
	sku := productSKU(productID)
	printArea := []byte(draft.Design.CanvasJSON)
	if len(printArea) == 0 {
		printArea = []byte("{}")
	}

	publication := storage.Publication{
		Product: storage.Product{
			ID:                productID,
			TenantID:          tenant.ID,
			DraftID:           draft.DraftID,
			Name:              draft.DesignTitle(),
			BasePriceCents:    plan.BasePriceCents,
			SKU:               sku,
			Metadata:          design.DesignData,
			PrintArea:         printArea,
			MockupTemplateURL: draft.Design.PreviewURL,
		},
		Design: design,
	}
	for i, planned := range plan.Variants {
		variantID, err := s.newID()
		if err != nil {
			return storage.Publication{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "generate variant id", err)
		}
		price := draft.Variants.Prices[planned.VariantID]
		metadata, err := json.Marshal(variantMetadata{
			VariantID:   planned.VariantID,
			CostCents:   price.CostCents,
			ProfitCents: price.ProfitCents,
		})
		if err != nil {
			return storage.Publication{}, apperrors.Wrap(apperrors.CodeInvalidInput, "encode variant metadata", err)
		}
		publication.Variants = append(publication.Variants, storage.ProductVariant{
			ID:         variantID,
			ProductID:  productID,
			Name:       planned.Name,
			SKU:        fmt.Sprintf("%s-%02d", sku, i+1),
			PriceCents: planned.PriceCents,
			Inventory:  planned.Inventory,
			Metadata:   metadata,
		})
	}
	return publication, nil
}

func productSKU(productID string) string {
	code := strings.ToUpper(productID)
	if len(code) > 10 {
		code = code[:10]
	}
	return "PS-" + code
}

// CompleteOnboarding records the finished questionnaire for the signed-in
// user and returns the role it granted.
func (s *Service) CompleteOnboarding(ctx context.Context, state onboarding.State) (string, error) {
	ctx, span := s.tracer.Start(ctx, "commerce.CompleteOnboarding", trace.WithAttributes(attribute.String("onboarding.path", string(state.Path))))
	defer span.End()

	principal, err := identity.Require(ctx)
	if err != nil {
		return "", err
	}
	if !onboarding.Complete(state) {
		return "", apperrors.New(apperrors.CodeInvalidInput, "onboarding is not complete")
	}
	role, ok := onboarding.RoleForPath(state.Path)
	if !ok {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidInput, "onboarding path has no role", map[string]string{"path": string(state.Path)})
	}
	if err := s.stores.Users.RecordOnboarding(ctx, storage.Identity{
		UserID:      principal.UserID,
		DisplayName: principal.Name,
		Email:       principal.Email,
	}, string(state.Path), role); err != nil {
		s.logger.Error().Err(err).Str("user_id", principal.UserID).Msg("record onboarding failed")
		return "", apperrors.Wrap(apperrors.CodePersistenceFailure, "record onboarding", err)
	}
	s.logger.Info().Str("user_id", principal.UserID).Str("path", string(state.Path)).Str("role", role).Msg("onboarding completed")
	return role, nil
}
