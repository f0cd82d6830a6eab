package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type controlDocument struct {
	ID              string `firestore:"id"`
	Title           string `firestore:"title"`
	ControlSetID    string `firestore:"control_set_id"`
	ControlSetTitle string `firestore:"control_set_title"`

	ControlStatus        string   `firestore:"control_status"`
	ControlApplicability string   `firestore:"control_applicability"`
	Justification        []string `firestore:"justification"`
	RelatedRisks         []string `firestore:"related_risks"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toControlDocument(c *model.SoAControl) *controlDocument {
	doc := &controlDocument{
		ID:                   c.ID.String(),
		Title:                c.Title,
		ControlSetID:         c.ControlSetID,
		ControlSetTitle:      c.ControlSetTitle,
		ControlStatus:        c.ControlStatus.String(),
		ControlApplicability: c.ControlApplicability.String(),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
	for _, j := range c.Justification {
		doc.Justification = append(doc.Justification, j.String())
	}
	for _, r := range c.RelatedRisks {
		doc.RelatedRisks = append(doc.RelatedRisks, r.String())
	}
	return doc
}

func (d *controlDocument) toModel() *model.SoAControl {
	control := &model.SoAControl{
		ID:                   types.ControlID(d.ID),
		Title:                d.Title,
		ControlSetID:         d.ControlSetID,
		ControlSetTitle:      d.ControlSetTitle,
		ControlStatus:        types.ControlStatus(d.ControlStatus),
		ControlApplicability: types.ControlApplicability(d.ControlApplicability),
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	for _, j := range d.Justification {
		control.Justification = append(control.Justification, types.Justification(j))
	}
	for _, r := range d.RelatedRisks {
		control.RelatedRisks = append(control.RelatedRisks, types.RiskID(r))
	}
	return control
}

type controlRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newControlRepository(client *firestore.Client) *controlRepository {
	return &controlRepository{client: client}
}

func (r *controlRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_controls"
	}
	return "controls"
}

func (r *controlRepository) Put(ctx context.Context, control *model.SoAControl) (*model.SoAControl, error) {
	docRef := r.client.Collection(r.collection()).Doc(control.ID.String())

	now := time.Now().UTC()
	doc := toControlDocument(control)
	doc.UpdatedAt = now
	doc.CreatedAt = now

	// Preserve the original creation time on replace
	if existing, err := docRef.Get(ctx); err == nil {
		var existingDoc controlDocument
		if err := existing.DataTo(&existingDoc); err == nil && !existingDoc.CreatedAt.IsZero() {
			doc.CreatedAt = existingDoc.CreatedAt
		}
	} else if status.Code(err) != codes.NotFound {
		return nil, goerr.Wrap(err, "failed to check existing control", goerr.V("id", control.ID))
	}

	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put control", goerr.V("id", control.ID))
	}

	return doc.toModel(), nil
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.SoAControl, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	var controlDoc controlDocument
	if err := doc.DataTo(&controlDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", id))
	}

	return controlDoc.toModel(), nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.SoAControl, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var controls []*model.SoAControl
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate controls")
		}

		var controlDoc controlDocument
		if err := doc.DataTo(&controlDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal control")
		}

		controls = append(controls, controlDoc.toModel())
	}

	sort.Slice(controls, func(i, j int) bool {
		return controls[i].ID < controls[j].ID
	})

	return controls, nil
}
