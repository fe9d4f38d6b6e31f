package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/pack"
)

func newService() *Service {
	return NewService(newOrchestrator())
}

func actions(entries []springforge.HistoryEntry) []springforge.ActionType {
	out := make([]springforge.ActionType, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func TestServiceHappyPath(t *testing.T) {
	svc := newService()

	req, err := svc.StartGeneration(context.Background(), "diag-1", []byte(shopPayload),
		springforge.ScopeFullProject, shopProject(), nil)
	require.NoError(t, err)
	assert.Equal(t, springforge.StatusPending, req.Status)
	svc.Wait()

	done, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, springforge.StatusCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, 16, done.FileCount)
	assert.NotEmpty(t, done.OutputPath)
	assert.NotEmpty(t, done.DownloadRef)
	assert.True(t, done.Downloadable())
	require.NotNil(t, done.DownloadExp)
	assert.WithinDuration(t, time.Now().Add(springforge.DownloadTTL), *done.DownloadExp, time.Minute)

	rc, err := svc.DownloadArchive(req.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.NotEmpty(t, data)

	assert.Equal(t, []springforge.ActionType{
		springforge.ActionStarted,
		springforge.ActionCompleted,
		springforge.ActionDownloaded,
	}, actions(svc.HistoryFor(req.ID)))
}

func TestServiceFailure(t *testing.T) {
	svc := newService()

	req, err := svc.StartGeneration(context.Background(), "diag-1", []byte(`{"classes": []}`),
		springforge.ScopeFullProject, shopProject(), nil)
	require.NoError(t, err)
	svc.Wait()

	failed, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, springforge.StatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "parse", failed.Error.Stage)
	assert.Equal(t, "parse", failed.Stage())
	assert.NotEmpty(t, failed.Error.Message)

	_, err = svc.DownloadArchive(req.ID)
	require.Error(t, err)

	assert.Equal(t, []springforge.ActionType{
		springforge.ActionStarted,
		springforge.ActionFailed,
	}, actions(svc.HistoryFor(req.ID)))
}

func TestServiceFailureStageFromProgress(t *testing.T) {
	// a read-only filesystem trips the pipeline while packaging
	packager := pack.NewPackager(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out")
	svc := NewService(New(packager))

	req, err := svc.StartGeneration(context.Background(), "diag-1", []byte(shopPayload),
		springforge.ScopeFullProject, shopProject(), nil)
	require.NoError(t, err)
	svc.Wait()

	failed, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	require.Equal(t, springforge.StatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	// the stage is the last checkpoint the run reached, kept in the
	// merged progress detail
	assert.Equal(t, "packaging", failed.Stage())
	assert.Equal(t, "packaging", failed.Error.Stage)
}

func TestServiceInvalidConfig(t *testing.T) {
	svc := newService()
	project := shopProject()
	project.GroupID = ""

	_, err := svc.StartGeneration(context.Background(), "diag-1", []byte(shopPayload),
		springforge.ScopeFullProject, project, nil)
	require.Error(t, err)
	assert.True(t, springforge.IsConfigError(err))
	assert.Empty(t, svc.Requests())
}

func TestServiceContextCancelled(t *testing.T) {
	svc := newService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := svc.StartGeneration(ctx, "diag-1", []byte(shopPayload),
		springforge.ScopeFullProject, shopProject(), nil)
	require.NoError(t, err)
	svc.Wait()

	cancelled, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, springforge.StatusCancelled, cancelled.Status)
	assert.Equal(t, []springforge.ActionType{
		springforge.ActionStarted,
		springforge.ActionCancelled,
	}, actions(svc.HistoryFor(req.ID)))
}

func TestServiceCancelTerminal(t *testing.T) {
	svc := newService()

	req, err := svc.StartGeneration(context.Background(), "diag-1", []byte(shopPayload),
		springforge.ScopeFullProject, shopProject(), nil)
	require.NoError(t, err)
	svc.Wait()

	// cancelling a finished request is a no-op, not an error
	require.NoError(t, svc.CancelGeneration(req.ID))

	done, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, springforge.StatusCompleted, done.Status)
	assert.NotContains(t, actions(svc.HistoryFor(req.ID)), springforge.ActionCancelled)
}

func TestServiceDownloadExpired(t *testing.T) {
	svc := newService()

	req, err := svc.StartGeneration(context.Background(), "diag-1", []byte(shopPayload),
		springforge.ScopeFullProject, shopProject(), nil)
	require.NoError(t, err)
	svc.Wait()

	past := time.Now().Add(-time.Minute)
	require.NoError(t, svc.update(req.ID, func(r *springforge.GenerationRequest) error {
		r.DownloadExp = &past
		return nil
	}))

	_, err = svc.DownloadArchive(req.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestServiceUnknownRequest(t *testing.T) {
	svc := newService()
	id := uuid.New()

	_, err := svc.GetRequest(id)
	require.Error(t, err)
	_, _, err = svc.Progress(id)
	require.Error(t, err)
	require.Error(t, svc.CancelGeneration(id))
	_, err = svc.DownloadArchive(id)
	require.Error(t, err)
}
