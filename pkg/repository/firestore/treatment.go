package firestore

import (
	"context"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type treatmentDocument struct {
	ID     int64  `firestore:"id"`
	RiskID string `firestore:"risk_id"`

	Title string `firestore:"title"`
	Owner string `firestore:"owner"`

	DueDate         *time.Time `firestore:"due_date"`
	ExtendedDueDate *time.Time `firestore:"extended_due_date"`
	ExtensionCount  int        `firestore:"extension_count"`
	CompletionDate  *time.Time `firestore:"completion_date"`
	ClosureApproval string     `firestore:"closure_approval"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toTreatmentDocument(t *model.Treatment) *treatmentDocument {
	return &treatmentDocument{
		ID:              t.ID,
		RiskID:          t.RiskID.String(),
		Title:           t.Title,
		Owner:           t.Owner,
		DueDate:         t.DueDate,
		ExtendedDueDate: t.ExtendedDueDate,
		ExtensionCount:  t.ExtensionCount,
		CompletionDate:  t.CompletionDate,
		ClosureApproval: t.ClosureApproval.String(),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (d *treatmentDocument) toModel() *model.Treatment {
	return &model.Treatment{
		ID:              d.ID,
		RiskID:          types.RiskID(d.RiskID),
		Title:           d.Title,
		Owner:           d.Owner,
		DueDate:         d.DueDate,
		ExtendedDueDate: d.ExtendedDueDate,
		ExtensionCount:  d.ExtensionCount,
		CompletionDate:  d.CompletionDate,
		ClosureApproval: types.ClosureApproval(d.ClosureApproval),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type treatmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTreatmentRepository(client *firestore.Client) *treatmentRepository {
	return &treatmentRepository{client: client}
}

func (r *treatmentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_treatments"
	}
	return "treatments"
}

func (r *treatmentRepository) countersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	id, err := nextCounterValue(ctx, r.client, r.countersCollection(), "treatment_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate treatment ID")
	}

	now := time.Now().UTC()
	doc := toTreatmentDocument(treatment)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create treatment", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	doc, err := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	var treatmentDoc treatmentDocument
	if err := doc.DataTo(&treatmentDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal treatment", goerr.V("id", id))
	}

	return treatmentDoc.toModel(), nil
}

func (r *treatmentRepository) ListByRisk(ctx context.Context, riskID types.RiskID) ([]*model.Treatment, error) {
	iter := r.client.Collection(r.collection()).
		Where("risk_id", "==", riskID.String()).
		Documents(ctx)
	defer iter.Stop()

	var treatments []*model.Treatment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate treatments", goerr.V("riskID", riskID))
		}

		var treatmentDoc treatmentDocument
		if err := doc.DataTo(&treatmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal treatment", goerr.V("riskID", riskID))
		}

		treatments = append(treatments, treatmentDoc.toModel())
	}

	sort.Slice(treatments, func(i, j int) bool {
		return treatments[i].ID < treatments[j].ID
	})

	return treatments, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(treatment.ID, 10))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", treatment.ID))
		}
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", treatment.ID))
	}

	var existing treatmentDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal treatment", goerr.V("id", treatment.ID))
	}

	updated := toTreatmentDocument(treatment)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", treatment.ID))
	}

	return updated.toModel(), nil
}
