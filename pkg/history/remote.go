package history

import (
	"context"

	"github.com/adwikataware/Hackcrypt/pkg/api"
	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// RemoteStore is the backend's own history exposed through the Store
// interface. The backend records scans itself as a side effect of
// analysis, so Put is a no-op here; it exists so lifecycle code can treat
// all stores alike.
type RemoteStore struct {
	client *api.Client
}

func NewRemoteStore(client *api.Client) *RemoteStore {
	return &RemoteStore{client: client}
}

func (s *RemoteStore) Put(_ context.Context, _ *types.ScanRecord) error {
	return nil
}

func (s *RemoteStore) Get(ctx context.Context, contentHash string) (*types.ScanRecord, bool, error) {
	records, err := s.client.History(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, record := range records {
		if record.ContentHash == contentHash {
			return record, true, nil
		}
	}
	return nil, false, nil
}

func (s *RemoteStore) GetAll(ctx context.Context) ([]*types.ScanRecord, error) {
	return s.client.History(ctx)
}

func (s *RemoteStore) Delete(ctx context.Context, contentHash string) error {
	return s.client.DeleteScan(ctx, contentHash)
}

func (s *RemoteStore) Clear(ctx context.Context) error {
	return s.client.ClearHistory(ctx)
}

func (s *RemoteStore) Stats(ctx context.Context) (*types.Stats, error) {
	return s.client.Stats(ctx)
}
