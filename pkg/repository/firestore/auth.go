package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type tokenDocument struct {
	ID        string    `firestore:"id"`
	Secret    string    `firestore:"secret"`
	Sub       string    `firestore:"sub"`
	Email     string    `firestore:"email"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
	ExpiresAt time.Time `firestore:"expires_at"`
}

func (f *Firestore) tokenCollection() string {
	if f.collectionPrefix != "" {
		return f.collectionPrefix + "_tokens"
	}
	return "tokens"
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	doc := &tokenDocument{
		ID:        token.ID.String(),
		Secret:    token.Secret.String(),
		Sub:       token.Sub,
		Email:     token.Email,
		Name:      token.Name,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	}

	docRef := f.client.Collection(f.tokenCollection()).Doc(doc.ID)
	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put token")
	}

	return nil
}

func (f *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	doc, err := f.client.Collection(f.tokenCollection()).Doc(tokenID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "token not found")
		}
		return nil, goerr.Wrap(err, "failed to get token")
	}

	var tokenDoc tokenDocument
	if err := doc.DataTo(&tokenDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token")
	}

	return &auth.Token{
		ID:        auth.TokenID(tokenDoc.ID),
		Secret:    auth.TokenSecret(tokenDoc.Secret),
		Sub:       tokenDoc.Sub,
		Email:     tokenDoc.Email,
		Name:      tokenDoc.Name,
		CreatedAt: tokenDoc.CreatedAt,
		ExpiresAt: tokenDoc.ExpiresAt,
	}, nil
}

func (f *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if _, err := f.client.Collection(f.tokenCollection()).Doc(tokenID.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token")
	}
	return nil
}
