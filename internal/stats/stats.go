// Package stats ships preference changes to InfluxDB. When InfluxDB cannot be
// reached the points are appended to a gzip line-protocol backup file instead.
package stats

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Bucket receives every preference point.
const Bucket = "loadout_preferences"

// ErrDisabled is returned by Connect when statistics are switched off.
var ErrDisabled = errors.New("influx statistics disabled")

// Recorder receives successful primary weapon writes.
type Recorder interface {
	RecordWeaponPreference(team core.Team, category core.AllocationType, round core.RoundType, weapon core.WeaponID, sharedPool bool)
}

// Nop discards everything.
type Nop struct{}

// RecordWeaponPreference implements Recorder.
func (Nop) RecordWeaponPreference(core.Team, core.AllocationType, core.RoundType, core.WeaponID, bool) {}

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger

	cfg        config.InfluxConfig
	backupFile *os.File
	mu         sync.Mutex
}

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger) *Manager {
	return &Manager{cfg: cfg, Logger: log}
}

// Connect establishes a connection to InfluxDB, or opens the backup file when it is unreachable.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", m.cfg.Protocol, m.cfg.Host, m.cfg.Port),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Info().Err(err).Str("backupPath", m.cfg.BackupPath).
			Msg("Failed to initialize InfluxDB client, writing to backup file")

		file, err := os.OpenFile(m.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("error creating backup file: %w", err)
		}
		m.backupFile = file
		m.BackupWriter = gzip.NewWriter(file)
		return nil
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.IsValid = true
	m.Logger.Info().Str("bucket", Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		m.Logger.Info().Str("org", m.cfg.Org).Msg("Organization not found, creating")
		if org, err = orgs.CreateOrganizationWithName(ctx, m.cfg.Org); err != nil {
			return fmt.Errorf("error creating organization %s: %w", m.cfg.Org, err)
		}
	}

	if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, Bucket); err != nil {
		m.Logger.Info().Str("bucket", Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90, // 90 days
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %s: %w", Bucket, err)
		}
	}
	return nil
}

func (m *Manager) createWriter() {
	m.Writer = m.Client.WriteAPI(m.cfg.Org, Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", Bucket).Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())
}

// WritePoint writes a point to InfluxDB or backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// WeaponPreferencePoint builds the point for one stored weapon choice.
func WeaponPreferencePoint(team core.Team, category core.AllocationType, round core.RoundType, weapon core.WeaponID, sharedPool bool, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint("weapon_preference",
		map[string]string{
			"team":     team.String(),
			"category": category.String(),
			"round":    round.String(),
			"weapon":   string(weapon),
		},
		map[string]interface{}{
			"count":       1,
			"shared_pool": sharedPool,
		},
		at,
	)
}

// RecordWeaponPreference implements Recorder. Failures are logged.
func (m *Manager) RecordWeaponPreference(team core.Team, category core.AllocationType, round core.RoundType, weapon core.WeaponID, sharedPool bool) {
	point := WeaponPreferencePoint(team, category, round, weapon, sharedPool, time.Now())
	if err := m.WritePoint(point); err != nil {
		m.Logger.Warn().Err(err).Str("weapon", string(weapon)).Msg("Failed to record weapon preference")
	}
}

// Close flushes pending points and releases the client or backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BackupWriter == nil {
		return nil
	}
	err := errors.Join(m.BackupWriter.Close(), m.backupFile.Close())
	m.BackupWriter = nil
	return err
}
