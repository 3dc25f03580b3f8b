package repository

import (
	"context"
	"fmt"
	"sort"

	"collab-notify/internal/push/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tokensCollection = "fcm_tokens"

// TokenRepository defines the interface for FCM token operations
type TokenRepository interface {
	// FetchTokens returns the user's token strings (ordered by device id) and the
	// device index they came from. A user without a document has no tokens.
	FetchTokens(ctx context.Context, userID string) ([]string, domain.TokenIndex, error)
	// RemoveTokens deletes every device entry of index whose token is in dead and
	// reports how many entries the write targeted. Entries already gone are a no-op.
	RemoveTokens(ctx context.Context, userID string, dead map[string]struct{}, index domain.TokenIndex) (int, error)
	SaveToken(ctx context.Context, userID, deviceID, token, platform string) error
	DeleteDevice(ctx context.Context, userID, deviceID string) error
}

// tokenDocuments is the per-user fcm_tokens document access the repository
// needs. Errors keep their gRPC status so NotFound can be told apart.
type tokenDocuments interface {
	Get(ctx context.Context, userID string) (*domain.TokensDocument, error)
	Update(ctx context.Context, userID string, updates []firestore.Update) error
	Merge(ctx context.Context, userID string, data map[string]interface{}) error
}

type firestoreTokenDocuments struct {
	client *firestore.Client
}

func (d firestoreTokenDocuments) ref(userID string) *firestore.DocumentRef {
	return d.client.Collection(tokensCollection).Doc(userID)
}

func (d firestoreTokenDocuments) Get(ctx context.Context, userID string) (*domain.TokensDocument, error) {
	snap, err := d.ref(userID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var doc domain.TokensDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode tokens of %s: %w", userID, err)
	}
	return &doc, nil
}

func (d firestoreTokenDocuments) Update(ctx context.Context, userID string, updates []firestore.Update) error {
	_, err := d.ref(userID).Update(ctx, updates)
	return err
}

func (d firestoreTokenDocuments) Merge(ctx context.Context, userID string, data map[string]interface{}) error {
	_, err := d.ref(userID).Set(ctx, data, firestore.MergeAll)
	return err
}

// tokenRepository implements TokenRepository on Firestore
type tokenRepository struct {
	docs tokenDocuments
}

// NewTokenRepository creates a new instance of tokenRepository
func NewTokenRepository(client *firestore.Client) TokenRepository {
	return &tokenRepository{
		docs: firestoreTokenDocuments{client: client},
	}
}

func (r *tokenRepository) FetchTokens(ctx context.Context, userID string) ([]string, domain.TokenIndex, error) {
	tokens := []string{}
	index := domain.TokenIndex{}

	doc, err := r.docs.Get(ctx, userID)
	if status.Code(err) == codes.NotFound {
		return tokens, index, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get tokens of %s: %w", userID, err)
	}

	deviceIDs := make([]string, 0, len(doc.Tokens))
	for deviceID, t := range doc.Tokens {
		if t.Token == "" {
			continue
		}
		deviceIDs = append(deviceIDs, deviceID)
	}
	sort.Strings(deviceIDs)

	for _, deviceID := range deviceIDs {
		t := doc.Tokens[deviceID]
		index[deviceID] = t
		tokens = append(tokens, t.Token)
	}
	return tokens, index, nil
}

func (r *tokenRepository) RemoveTokens(ctx context.Context, userID string, dead map[string]struct{}, index domain.TokenIndex) (int, error) {
	devices := index.DevicesFor(dead)
	if len(devices) == 0 {
		return 0, nil
	}

	updates := make([]firestore.Update, 0, len(devices))
	for _, deviceID := range devices {
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{"tokens", deviceID},
			Value:     firestore.Delete,
		})
	}

	err := r.docs.Update(ctx, userID, updates)
	if status.Code(err) == codes.NotFound {
		// The whole document is already gone, nothing left to prune.
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("remove %d token(s) of %s: %w", len(devices), userID, err)
	}
	return len(devices), nil
}

// SaveToken registers or refreshes a device. Any other device of the same user
// holding the same token string is dropped in the same write.
func (r *tokenRepository) SaveToken(ctx context.Context, userID, deviceID, token, platform string) error {
	_, index, err := r.FetchTokens(ctx, userID)
	if err != nil {
		return err
	}

	entries := map[string]interface{}{
		deviceID: map[string]interface{}{
			"token":     token,
			"platform":  platform,
			"updatedAt": firestore.ServerTimestamp,
		},
	}
	for _, other := range index.DevicesFor(map[string]struct{}{token: {}}) {
		if other != deviceID {
			entries[other] = firestore.Delete
		}
	}

	err = r.docs.Merge(ctx, userID, map[string]interface{}{"tokens": entries})
	if err != nil {
		return fmt.Errorf("save token of %s/%s: %w", userID, deviceID, err)
	}
	return nil
}

func (r *tokenRepository) DeleteDevice(ctx context.Context, userID, deviceID string) error {
	err := r.docs.Update(ctx, userID, []firestore.Update{{
		FieldPath: firestore.FieldPath{"tokens", deviceID},
		Value:     firestore.Delete,
	}})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete device %s/%s: %w", userID, deviceID, err)
	}
	return nil
}
