package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assetDocument struct {
	ID             string `firestore:"id"`
	Name           string `firestore:"name"`
	Owner          string `firestore:"owner"`
	Classification string `firestore:"classification"`

	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toAssetDocument(a *model.InformationAsset) *assetDocument {
	return &assetDocument{
		ID:             a.ID,
		Name:           a.Name,
		Owner:          a.Owner,
		Classification: a.Classification,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (d *assetDocument) toModel() *model.InformationAsset {
	return &model.InformationAsset{
		ID:             d.ID,
		Name:           d.Name,
		Owner:          d.Owner,
		Classification: d.Classification,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type assetRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssetRepository(client *firestore.Client) *assetRepository {
	return &assetRepository{client: client}
}

func (r *assetRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_assets"
	}
	return "assets"
}

func (r *assetRepository) countersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *assetRepository) Create(ctx context.Context, asset *model.InformationAsset) (*model.InformationAsset, error) {
	seq, err := nextCounterValue(ctx, r.client, r.countersCollection(), "asset_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate asset ID")
	}

	now := time.Now().UTC()
	doc := toAssetDocument(asset)
	doc.ID = fmt.Sprintf("asset-%d", seq)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(doc.ID)
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create asset", goerr.V("id", doc.ID))
	}

	return doc.toModel(), nil
}

func (r *assetRepository) Get(ctx context.Context, id string) (*model.InformationAsset, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get asset", goerr.V("id", id))
	}

	var assetDoc assetDocument
	if err := doc.DataTo(&assetDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal asset", goerr.V("id", id))
	}

	return assetDoc.toModel(), nil
}

func (r *assetRepository) List(ctx context.Context) ([]*model.InformationAsset, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var assets []*model.InformationAsset
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assets")
		}

		var assetDoc assetDocument
		if err := doc.DataTo(&assetDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal asset")
		}

		assets = append(assets, assetDoc.toModel())
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].ID < assets[j].ID
	})

	return assets, nil
}
