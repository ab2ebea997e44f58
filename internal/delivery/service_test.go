// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviezone/moviezone/internal/metrics"
	"github.com/moviezone/moviezone/internal/models"
)

type fakeCatalog struct {
	movie *models.Movie
	file  *models.FileRef
	err   error
}

func (f *fakeCatalog) FindByCode(_ context.Context, _ string) (*models.Movie, *models.FileRef, error) {
	return f.movie, f.file, f.err
}

type fakeSender struct {
	messages []string
	sentFile string
	caption  string
	fileType string
	sendErr  error
}

func (f *fakeSender) SendMessage(_ context.Context, _ int64, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) SendFile(_ context.Context, _ int64, fileID, caption, fileType string) (int64, error) {
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.sentFile = fileID
	f.caption = caption
	f.fileType = fileType
	return 555, nil
}

func newDeliveryService(catalog *fakeCatalog, sender *fakeSender) (*Service, *Scheduler, *metrics.Metrics) {
	m := metrics.New()
	scheduler := NewScheduler(&fakeDeleter{}, 10*time.Minute, m)
	return NewService(catalog, sender, scheduler, m), scheduler, m
}

func deliveryCount(m *metrics.Metrics, outcome string) float64 {
	return testutil.ToFloat64(m.Deliveries.WithLabelValues(outcome))
}

func TestRedeem_SendsFileAndSchedulesExpiry(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		movie: &models.Movie{Title: "Akira"},
		file: &models.FileRef{
			FileID:       "file-1",
			EpisodeLabel: "Full Movie",
			FileType:     models.FileTypeVideo,
		},
	}
	sender := &fakeSender{}

	svc, scheduler, m := newDeliveryService(catalog, sender)
	defer scheduler.Stop()

	svc.Redeem(context.Background(), 200, "deadbeef")

	assert.Equal(t, "file-1", sender.sentFile)
	assert.Equal(t, models.FileTypeVideo, sender.fileType)
	assert.Contains(t, sender.caption, "*Akira*")
	assert.Contains(t, sender.caption, "Full Movie")
	assert.Contains(t, sender.caption, "expires in 10 mins")
	assert.Empty(t, sender.messages)
	assert.Equal(t, 1.0, deliveryCount(m, metrics.DeliveryOutcomeSent))
}

func TestRedeem_UnknownCodeRepliesExpired(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{err: models.ErrCodeNotFound}
	sender := &fakeSender{}

	svc, scheduler, m := newDeliveryService(catalog, sender)
	defer scheduler.Stop()

	svc.Redeem(context.Background(), 200, "nope")

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "❌ File expired.", sender.messages[0])
	assert.Empty(t, sender.sentFile)
	assert.Equal(t, 1.0, deliveryCount(m, metrics.DeliveryOutcomeNotFound))
	assert.Zero(t, deliveryCount(m, metrics.DeliveryOutcomeLookupFailed))
}

func TestRedeem_LookupFailureRepliesExpired(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{err: errors.New("db down")}
	sender := &fakeSender{}

	svc, scheduler, m := newDeliveryService(catalog, sender)
	defer scheduler.Stop()

	svc.Redeem(context.Background(), 200, "deadbeef")

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "❌ File expired.", sender.messages[0])

	// Infrastructure failures are not unknown codes.
	assert.Equal(t, 1.0, deliveryCount(m, metrics.DeliveryOutcomeLookupFailed))
	assert.Zero(t, deliveryCount(m, metrics.DeliveryOutcomeNotFound))
}

func TestRedeem_SendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		movie: &models.Movie{Title: "Akira"},
		file:  &models.FileRef{FileID: "file-1", FileType: models.FileTypeVideo},
	}
	sender := &fakeSender{sendErr: errors.New("blocked by user")}

	svc, scheduler, m := newDeliveryService(catalog, sender)
	defer scheduler.Stop()

	svc.Redeem(context.Background(), 200, "deadbeef")

	// No retry reply on transport failure, fire-once.
	assert.Empty(t, sender.messages)
	assert.Equal(t, 1.0, deliveryCount(m, metrics.DeliveryOutcomeSendFailed))
}

func TestWelcome(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	svc, scheduler, _ := newDeliveryService(&fakeCatalog{}, sender)
	defer scheduler.Stop()

	svc.Welcome(context.Background(), 200)

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "Welcome")
}
