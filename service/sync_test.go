package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensy/models"
)

type fakeSyncStore struct {
	records  []models.Record
	queryErr error
	marked   []string
	markErr  error
}

func (s *fakeSyncStore) UnsyncedRecords() ([]models.Record, error) {
	return s.records, s.queryErr
}

func (s *fakeSyncStore) MarkSynced(ids []string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, ids...)
	return nil
}

type fakeSink struct {
	lastRange string
	rangeErr  error
	writeErr  error
	written   [][]interface{}
	writes    int
}

func (s *fakeSink) LastRowRange(ctx context.Context, amountRows int) (string, error) {
	if s.rangeErr != nil {
		return "", s.rangeErr
	}
	return s.lastRange, nil
}

func (s *fakeSink) Write(ctx context.Context, rangeStr string, rows [][]interface{}) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes++
	s.written = rows
	return nil
}

func strPtr(s string) *string { return &s }

func testRecords() []models.Record {
	d := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	return []models.Record{
		{
			ID:          "abc",
			Description: strPtr("PAGOS360 DPEC FACTURA. 15/06/2025"),
			Date:        &d,
			Category:    &models.Category{ID: 3, Name: "Servicios"},
			Amount:      1234.56,
			Source:      models.SourceMacro,
		},
		{ID: "def", Amount: -50},
	}
}

func TestSyncService_Run(t *testing.T) {
	store := &fakeSyncStore{records: testRecords()}
	sink := &fakeSink{lastRange: "records!A10:F11"}
	svc := &SyncService{Store: store, Sink: sink}

	n, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// 单次整批写入
	assert.Equal(t, 1, sink.writes)
	require.Len(t, sink.written, 2)
	assert.Equal(t,
		[]interface{}{"abc", "PAGOS360 DPEC FACTURA. 15/06/2025", "2025-06-15", "Servicios", "1234.56", "macro"},
		sink.written[0])

	// 写入成功后，恰好这一批记录被标记，不多不少
	assert.Equal(t, []string{"abc", "def"}, store.marked)
}

func TestSyncService_Run_SinkFailureMarksNothing(t *testing.T) {
	store := &fakeSyncStore{records: testRecords()}
	sink := &fakeSink{lastRange: "records!A10:F11", writeErr: errors.New("quota exceeded")}
	svc := &SyncService{Store: store, Sink: sink}

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	// 落地失败时零条记录被标记
	assert.Empty(t, store.marked)
}

func TestSyncService_Run_EmptyBatch(t *testing.T) {
	store := &fakeSyncStore{}
	sink := &fakeSink{}
	svc := &SyncService{Store: store, Sink: sink}

	n, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, sink.writes, "空批不应触发写入")
}

func TestSerializeRecords_EmptyFields(t *testing.T) {
	rows := SerializeRecords([]models.Record{{ID: "x"}})
	require.Len(t, rows, 1)
	// 缺失字段序列化为空字符串
	assert.Equal(t, []interface{}{"x", "", "", "", "", ""}, rows[0])
}
