package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"inside_value_bot/internal/models"
)

// Journal — файловый журнал сигналов: один JSON-массив на стратегию и день.
// Ключ апсерта — (Symbol, Strategy_Type).
type Journal struct {
	signalsDir string
	reportsDir string

	mu  sync.Mutex
	now func() time.Time
}

func NewJournal(signalsDir, reportsDir string) *Journal {
	return &Journal{
		signalsDir: signalsDir,
		reportsDir: reportsDir,
		now:        time.Now,
	}
}

func (j *Journal) fileFor(strategy models.Direction, day time.Time) string {
	name := fmt.Sprintf("%s_inside_value_signals_%s.json", strategy, day.Format("20060102"))
	return filepath.Join(j.signalsDir, name)
}

// Upsert дописывает или обновляет запись в дневном файле стратегии.
func (j *Journal) Upsert(rec models.SignalRecord) error {
	return j.UpsertAll([]models.SignalRecord{rec})
}

func (j *Journal) UpsertAll(recs []models.SignalRecord) error {
	if len(recs) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	byStrategy := make(map[models.Direction][]models.SignalRecord)
	for _, r := range recs {
		byStrategy[models.Direction(r.StrategyType)] = append(byStrategy[models.Direction(r.StrategyType)], r)
	}

	day := j.now()
	for strategy, batch := range byStrategy {
		if err := j.upsertFileLocked(j.fileFor(strategy, day), batch); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) upsertFileLocked(path string, batch []models.SignalRecord) error {
	existing, err := j.loadFile(path)
	if err != nil {
		return err
	}

	for _, rec := range batch {
		replaced := false
		for i, old := range existing {
			if old.Symbol == rec.Symbol && old.StrategyType == rec.StrategyType {
				existing[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, rec)
		}
	}

	return j.saveFile(path, existing)
}

// Load — записи стратегии за день.
func (j *Journal) Load(strategy models.Direction, day time.Time) ([]models.SignalRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.loadFile(j.fileFor(strategy, day))
}

func (j *Journal) loadFile(path string) ([]models.SignalRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var recs []models.SignalRecord
	if err := sonic.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recs, nil
}

func (j *Journal) saveFile(path string, recs []models.SignalRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path) // атомарно
}
