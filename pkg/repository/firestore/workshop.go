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

type minuteItemDocument struct {
	RiskID             string  `firestore:"risk_id"`
	SelectedTreatments []int64 `firestore:"selected_treatments"`
	ActionsTaken       string  `firestore:"actions_taken"`
	ToDo               string  `firestore:"todo"`
	Outcome            string  `firestore:"outcome"`
}

type workshopDocument struct {
	ID          int64      `firestore:"id"`
	ScheduledAt *time.Time `firestore:"scheduled_at"`
	Facilitator string     `firestore:"facilitator"`
	Status      string     `firestore:"status"`

	Extensions []minuteItemDocument `firestore:"extensions"`
	Closure    []minuteItemDocument `firestore:"closure"`
	NewRisks   []minuteItemDocument `firestore:"new_risks"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toMinuteItemDocuments(items []model.MinuteItem) []minuteItemDocument {
	docs := make([]minuteItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, minuteItemDocument{
			RiskID:             item.RiskID.String(),
			SelectedTreatments: item.SelectedTreatments,
			ActionsTaken:       item.ActionsTaken,
			ToDo:               item.ToDo,
			Outcome:            item.Outcome,
		})
	}
	return docs
}

func toMinuteItems(docs []minuteItemDocument) []model.MinuteItem {
	items := make([]model.MinuteItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, model.MinuteItem{
			RiskID:             types.RiskID(doc.RiskID),
			SelectedTreatments: doc.SelectedTreatments,
			ActionsTaken:       doc.ActionsTaken,
			ToDo:               doc.ToDo,
			Outcome:            doc.Outcome,
		})
	}
	return items
}

func toWorkshopDocument(w *model.Workshop) *workshopDocument {
	return &workshopDocument{
		ID:          w.ID,
		ScheduledAt: w.ScheduledAt,
		Facilitator: w.Facilitator,
		Status:      w.Status.String(),
		Extensions:  toMinuteItemDocuments(w.Extensions),
		Closure:     toMinuteItemDocuments(w.Closure),
		NewRisks:    toMinuteItemDocuments(w.NewRisks),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (d *workshopDocument) toModel() *model.Workshop {
	return &model.Workshop{
		ID:          d.ID,
		ScheduledAt: d.ScheduledAt,
		Facilitator: d.Facilitator,
		Status:      types.WorkshopStatus(d.Status),
		Extensions:  toMinuteItems(d.Extensions),
		Closure:     toMinuteItems(d.Closure),
		NewRisks:    toMinuteItems(d.NewRisks),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type workshopRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWorkshopRepository(client *firestore.Client) *workshopRepository {
	return &workshopRepository{client: client}
}

func (r *workshopRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_workshops"
	}
	return "workshops"
}

func (r *workshopRepository) countersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *workshopRepository) Create(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error) {
	id, err := nextCounterValue(ctx, r.client, r.countersCollection(), "workshop_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate workshop ID")
	}

	now := time.Now().UTC()
	doc := toWorkshopDocument(workshop)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create workshop", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *workshopRepository) Get(ctx context.Context, id int64) (*model.Workshop, error) {
	doc, err := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "workshop not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get workshop", goerr.V("id", id))
	}

	var workshopDoc workshopDocument
	if err := doc.DataTo(&workshopDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal workshop", goerr.V("id", id))
	}

	return workshopDoc.toModel(), nil
}

func (r *workshopRepository) List(ctx context.Context) ([]*model.Workshop, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var workshops []*model.Workshop
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate workshops")
		}

		var workshopDoc workshopDocument
		if err := doc.DataTo(&workshopDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal workshop")
		}

		workshops = append(workshops, workshopDoc.toModel())
	}

	sort.Slice(workshops, func(i, j int) bool {
		return workshops[i].ID < workshops[j].ID
	})

	return workshops, nil
}

func (r *workshopRepository) Update(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error) {
	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(workshop.ID, 10))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "workshop not found", goerr.V("id", workshop.ID))
		}
		return nil, goerr.Wrap(err, "failed to get workshop", goerr.V("id", workshop.ID))
	}

	var existing workshopDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal workshop", goerr.V("id", workshop.ID))
	}

	updated := toWorkshopDocument(workshop)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update workshop", goerr.V("id", workshop.ID))
	}

	return updated.toModel(), nil
}
