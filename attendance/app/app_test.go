package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"axiapac.com/attendance/attendance/core"
	"axiapac.com/attendance/infrastructure/communication"
	"axiapac.com/attendance/infrastructure/devops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archivedFile struct {
	key         string
	contentType string
	size        int
}

type fakeArchive struct {
	files []archivedFile
}

func (a *fakeArchive) WriteFile(_ context.Context, key string, data []byte, contentType string) error {
	a.files = append(a.files, archivedFile{key: key, contentType: contentType, size: len(data)})
	return nil
}

func (a *fakeArchive) ListFiles(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, f := range a.files {
		if strings.HasPrefix(f.key, prefix) {
			keys = append(keys, f.key)
		}
	}
	return keys, nil
}

type fakeMailer struct {
	sent []*communication.EmailInfo
}

func (m *fakeMailer) Send(_ context.Context, info *communication.EmailInfo) (string, error) {
	m.sent = append(m.sent, info)
	return "message-1", nil
}

type recordingNotifier struct {
	info []string
}

func (n *recordingNotifier) Info(_ context.Context, message string) error {
	n.info = append(n.info, message)
	return nil
}

func (n *recordingNotifier) Error(context.Context, string) error {
	return nil
}

func testConfig(storage devops.StorageConfig) *devops.Config {
	return &devops.Config{
		Office:    devops.OfficeConfig{Name: "Head Office", Timezone: "UTC", AllowedNetworks: []string{"10.0.0.0/8"}},
		RateLimit: devops.RateLimitConfig{MaxAttempts: 10, Window: time.Hour, SweepInterval: time.Hour},
		Admin:     devops.AdminConfig{SigningSecret: "c2VjcmV0", SessionTTL: time.Hour},
		Storage:   storage,
		Report:    devops.ReportConfig{From: "reports@example.com", Recipients: []string{"boss@example.com"}, Prefix: "reports"},
		Log:       devops.LogConfig{Level: "error", Format: "text"},
	}
}

func seed(t *testing.T, a *App) {
	t.Helper()
	ctx := context.Background()
	_, err := a.Directory.Create(ctx, core.NewEmployee{EmployeeID: "E1", EmployeeName: "Alice"})
	require.NoError(t, err)

	checkIn := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	_, err = a.Ledger.CheckIn(ctx, "E1", "Alice", "2024-03-04", "10.0.0.5", checkIn)
	require.NoError(t, err)
	_, err = a.Ledger.CheckOut(ctx, "E1", "2024-03-04", "10.0.0.5", checkIn.Add(8*time.Hour))
	require.NoError(t, err)
}

func TestOpenPersistsAcrossRestarts(t *testing.T) {
	tests := []struct {
		name    string
		storage func(dir string) devops.StorageConfig
	}{
		{"file", func(dir string) devops.StorageConfig {
			return devops.StorageConfig{Driver: "file", DataDir: dir, MaxConnections: 1}
		}},
		{"sqlite", func(dir string) devops.StorageConfig {
			return devops.StorageConfig{Driver: "sqlite", DSN: filepath.Join(dir, "attendance.db"), MaxConnections: 1}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.storage(t.TempDir()))
			ctx := context.Background()

			a, err := Open(ctx, cfg)
			require.NoError(t, err)
			seed(t, a)
			require.NoError(t, a.Close())

			reopened, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer reopened.Close()

			employees := reopened.Directory.List()
			require.Len(t, employees, 1)
			assert.True(t, employees[0].IsActive)

			records := reopened.Ledger.AllRecords()
			require.Len(t, records, 1)
			assert.Equal(t, int64(1), records[0].Sequence)
			require.NotNil(t, records[0].WorkHours)
			assert.Equal(t, 8.0, *records[0].WorkHours)

			status := reopened.Ledger.Status("E1", "2024-03-04")
			assert.True(t, status.HasCheckedOut)
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), testConfig(devops.StorageConfig{Driver: "tape"}))
	assert.Error(t, err)
}

func TestRouterNeedsValidSecret(t *testing.T) {
	a, err := Open(context.Background(), testConfig(devops.StorageConfig{Driver: "file", DataDir: t.TempDir()}))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Router()
	require.NoError(t, err)

	a.Config.Admin.SigningSecret = "%%%"
	_, err = a.Router()
	assert.Error(t, err)
}

func TestDeliverMonthlyReport(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(devops.StorageConfig{Driver: "file", DataDir: t.TempDir()}))
	require.NoError(t, err)
	defer a.Close()
	seed(t, a)

	notifier := &recordingNotifier{}
	a.Notifier = notifier
	archive := &fakeArchive{}
	mailer := &fakeMailer{}

	result, err := a.DeliverMonthlyReport(ctx, 3, 2024, Delivery{Archive: archive, Mailer: mailer})
	require.NoError(t, err)
	assert.Equal(t, "Attendance_March_2024.xlsx", result.Filename)
	assert.Equal(t, 1, result.Employees)
	assert.Equal(t, "reports/2024/Attendance_March_2024.xlsx", result.ArchiveKey)
	assert.Equal(t, "message-1", result.MessageID)

	require.Len(t, archive.files, 1)
	assert.Equal(t, xlsxContentType, archive.files[0].contentType)
	assert.Positive(t, archive.files[0].size)

	require.Len(t, mailer.sent, 1)
	email := mailer.sent[0]
	assert.Equal(t, []string{"boss@example.com"}, email.To)
	assert.Equal(t, "Head Office attendance report - March 2024", email.Subject)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "Attendance_March_2024.xlsx", email.Attachments[0].Filename)

	assert.Len(t, notifier.info, 1)
}

func TestDeliverMonthlyReportWithoutData(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(devops.StorageConfig{Driver: "file", DataDir: t.TempDir()}))
	require.NoError(t, err)
	defer a.Close()

	notifier := &recordingNotifier{}
	a.Notifier = notifier
	archive := &fakeArchive{}

	result, err := a.DeliverMonthlyReport(ctx, 2, 2024, Delivery{Archive: archive})
	require.NoError(t, err)
	assert.True(t, result.NoData)
	assert.Empty(t, archive.files)
	assert.Equal(t, []string{"No attendance recorded for February 2024, report skipped"}, notifier.info)
}

func TestArchivedReports(t *testing.T) {
	archive := &fakeArchive{files: []archivedFile{
		{key: "reports/2023/Attendance_December_2023.xlsx"},
		{key: "reports/2024/Attendance_March_2024.xlsx"},
		{key: "reports/2024/notes.txt"},
		{key: "reports/2024/Attendance_April_2024.xlsx"},
		{key: "reportsold/2022/Attendance_May_2022.xlsx"},
		{key: "data/records.json"},
	}}

	tests := []struct {
		name   string
		prefix string
		year   int
		want   []string
	}{
		{"every year", "reports", 0, []string{
			"reports/2024/Attendance_April_2024.xlsx",
			"reports/2024/Attendance_March_2024.xlsx",
			"reports/2023/Attendance_December_2023.xlsx",
		}},
		{"one year", "reports", 2023, []string{"reports/2023/Attendance_December_2023.xlsx"}},
		{"empty year", "reports", 2020, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := ArchivedReports(context.Background(), archive, tt.prefix, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestDeliveredReportIsListed(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(devops.StorageConfig{Driver: "file", DataDir: t.TempDir()}))
	require.NoError(t, err)
	defer a.Close()
	a.Notifier = &recordingNotifier{}
	seed(t, a)

	archive := &fakeArchive{}
	result, err := a.DeliverMonthlyReport(ctx, 3, 2024, Delivery{Archive: archive})
	require.NoError(t, err)

	keys, err := ArchivedReports(ctx, archive, a.Config.Report.Prefix, 2024)
	require.NoError(t, err)
	assert.Equal(t, []string{result.ArchiveKey}, keys)
}
