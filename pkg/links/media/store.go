// Package media holds the janus links shared by the detection and
// protection modules: backend client construction, submission, history
// plumbing, and frame-batch analysis.
package media

import (
	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/adwikataware/Hackcrypt/pkg/api"
	"github.com/adwikataware/Hackcrypt/pkg/history"
)

// clientFromArgs builds the backend client a link was configured for.
func clientFromArgs(l chain.Link) *api.Client {
	baseURL, _ := cfg.As[string](l.Arg("backend-url"))

	opts := []api.Option{}
	if maxMB, err := cfg.As[int](l.Arg("max-upload-mb")); err == nil && maxMB > 0 {
		opts = append(opts, api.WithMaxUploadSize(int64(maxMB)<<20))
	}

	return api.NewClient(baseURL, opts...)
}

// storeFromArgs picks the history store: a local sqlite file when
// history-db is set, the backend's own history otherwise.
func storeFromArgs(l chain.Link, client *api.Client) (history.Store, error) {
	dbPath, _ := cfg.As[string](l.Arg("history-db"))
	if dbPath != "" {
		return history.NewSQLiteStore(dbPath)
	}
	return history.NewRemoteStore(client), nil
}
