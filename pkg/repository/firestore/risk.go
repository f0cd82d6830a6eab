package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskDocument struct {
	ID          string `firestore:"id"`
	Title       string `firestore:"title"`
	Description string `firestore:"description"`
	Owner       string `firestore:"owner"`
	Phase       string `firestore:"phase"`

	ImpactConfidentiality bool `firestore:"impact_confidentiality"`
	ImpactIntegrity       bool `firestore:"impact_integrity"`
	ImpactAvailability    bool `firestore:"impact_availability"`

	LikelihoodRating  string `firestore:"likelihood_rating"`
	ConsequenceRating string `firestore:"consequence_rating"`
	RiskRating        string `firestore:"risk_rating"`

	ResidualLikelihood  string `firestore:"residual_likelihood"`
	ResidualConsequence string `firestore:"residual_consequence"`
	ResidualRiskRating  string `firestore:"residual_risk_rating"`

	CurrentControls                  []string `firestore:"current_controls"`
	CurrentControlsReference         []string `firestore:"current_controls_reference"`
	ApplicableControlsAfterTreatment []string `firestore:"applicable_controls_after_treatment"`
	InformationAssetIDs              []string `firestore:"information_asset_ids"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	doc := &riskDocument{
		ID:                    r.ID.String(),
		Title:                 r.Title,
		Description:           r.Description,
		Owner:                 r.Owner,
		Phase:                 r.Phase.String(),
		ImpactConfidentiality: r.Impact.Confidentiality,
		ImpactIntegrity:       r.Impact.Integrity,
		ImpactAvailability:    r.Impact.Availability,
		LikelihoodRating:      r.LikelihoodRating.String(),
		ConsequenceRating:     r.ConsequenceRating.String(),
		RiskRating:            r.RiskRating.String(),
		ResidualLikelihood:    r.ResidualLikelihood.String(),
		ResidualConsequence:   r.ResidualConsequence.String(),
		ResidualRiskRating:    r.ResidualRiskRating.String(),
		CurrentControls:       r.CurrentControls,
		InformationAssetIDs:   r.InformationAssetIDs,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	for _, id := range r.CurrentControlsReference {
		doc.CurrentControlsReference = append(doc.CurrentControlsReference, id.String())
	}
	for _, id := range r.ApplicableControlsAfterTreatment {
		doc.ApplicableControlsAfterTreatment = append(doc.ApplicableControlsAfterTreatment, id.String())
	}
	return doc
}

func (d *riskDocument) toModel() *model.Risk {
	risk := &model.Risk{
		ID:          types.RiskID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Owner:       d.Owner,
		Phase:       types.RiskPhase(d.Phase),
		Impact: model.CIAImpact{
			Confidentiality: d.ImpactConfidentiality,
			Integrity:       d.ImpactIntegrity,
			Availability:    d.ImpactAvailability,
		},
		LikelihoodRating:    types.Likelihood(d.LikelihoodRating),
		ConsequenceRating:   types.Consequence(d.ConsequenceRating),
		RiskRating:          types.RiskRating(d.RiskRating),
		ResidualLikelihood:  types.Likelihood(d.ResidualLikelihood),
		ResidualConsequence: types.Consequence(d.ResidualConsequence),
		ResidualRiskRating:  types.RiskRating(d.ResidualRiskRating),
		CurrentControls:     d.CurrentControls,
		InformationAssetIDs: d.InformationAssetIDs,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	for _, id := range d.CurrentControlsReference {
		risk.CurrentControlsReference = append(risk.CurrentControlsReference, types.ControlID(id))
	}
	for _, id := range d.ApplicableControlsAfterTreatment {
		risk.ApplicableControlsAfterTreatment = append(risk.ApplicableControlsAfterTreatment, types.ControlID(id))
	}
	return risk
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{client: client}
}

func (r *riskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risks"
	}
	return "risks"
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(risk.ID.String())

	if _, err := docRef.Get(ctx); err == nil {
		return nil, goerr.Wrap(ErrAlreadyExists, "risk already exists", goerr.V("id", risk.ID))
	} else if status.Code(err) != codes.NotFound {
		return nil, goerr.Wrap(err, "failed to check existing risk", goerr.V("id", risk.ID))
	}

	now := time.Now().UTC()
	doc := toRiskDocument(risk)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V("id", risk.ID))
	}

	return doc.toModel(), nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}

	return riskDoc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}

		risks = append(risks, riskDoc.toModel())
	}

	return risks, nil
}

func (r *riskRepository) ListIDs(ctx context.Context) ([]types.RiskID, error) {
	iter := r.client.Collection(r.collection()).Select("id").Documents(ctx)
	defer iter.Stop()

	var ids []types.RiskID
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risk IDs")
		}

		id, err := doc.DataAt("id")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read risk ID")
		}
		if s, ok := id.(string); ok {
			ids = append(ids, types.RiskID(s))
		}
	}

	return ids, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(risk.ID.String())

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
	}

	updated := toRiskDocument(risk)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return updated.toModel(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}

	return nil
}
