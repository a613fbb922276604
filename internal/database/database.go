// Package database ведет необязательный журнал прогонов в MySQL.
package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"macroplay/internal/command"
	"macroplay/internal/executor"
	"macroplay/internal/logger"
)

const maxErrorText = 1024

var schema = []string{
	`CREATE TABLE IF NOT EXISTS macro_runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		total_steps INT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'running',
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP NULL
	)`,
	`CREATE TABLE IF NOT EXISTS macro_steps (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id BIGINT NOT NULL,
		step_index INT NOT NULL,
		command_type VARCHAR(32) NOT NULL,
		description VARCHAR(512) NOT NULL,
		outcome VARCHAR(16) NOT NULL,
		error_text TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES macro_runs(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		action VARCHAR(50) NOT NULL,
		executed BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// DatabaseManager содержит функции для работы с базой данных
type DatabaseManager struct {
	db     *sql.DB
	logger *logger.LoggerManager
}

var _ executor.Journal = (*DatabaseManager)(nil)

// NewDatabaseManager создает новый экземпляр DatabaseManager
func NewDatabaseManager(db *sql.DB, loggerManager *logger.LoggerManager) *DatabaseManager {
	return &DatabaseManager{
		db:     db,
		logger: loggerManager,
	}
}

// Open подключается к MySQL по DSN и проверяет соединение.
// parseTime включается всегда: журнал читает TIMESTAMP в time.Time.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("неверный database_dsn: %w", err)
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("MySQL недоступна: %w", err)
	}
	return db, nil
}

// EnsureSchema создает таблицы журнала, если их нет
func (h *DatabaseManager) EnsureSchema() error {
	for _, stmt := range schema {
		if _, err := h.db.Exec(stmt); err != nil {
			return fmt.Errorf("ошибка создания таблицы: %w", err)
		}
	}
	return nil
}

// StartRun записывает начало прогона и возвращает его ID
func (h *DatabaseManager) StartRun(total int) (int64, error) {
	result, err := h.db.Exec(`INSERT INTO macro_runs (total_steps) VALUES (?)`, total)
	if err != nil {
		return 0, fmt.Errorf("ошибка вставки прогона: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ID записи: %w", err)
	}
	h.logger.Info("🗄️ Прогон записан с ID: %d", id)
	return id, nil
}

// RecordStep сохраняет итог одного шага
func (h *DatabaseManager) RecordStep(runID int64, result executor.StepResult) error {
	var errText sql.NullString
	if result.Err != nil {
		text := result.Err.Error()
		if len(text) > maxErrorText {
			text = text[:maxErrorText]
		}
		errText = sql.NullString{String: text, Valid: true}
	}

	_, err := h.db.Exec(
		`INSERT INTO macro_steps (run_id, step_index, command_type, description, outcome, error_text) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, result.Index, string(result.Command.Kind()), command.Describe(result.Command), string(result.Outcome), errText,
	)
	if err != nil {
		return fmt.Errorf("ошибка вставки шага: %w", err)
	}
	return nil
}

// FinishRun записывает итог прогона
func (h *DatabaseManager) FinishRun(runID int64, status executor.RunStatus) error {
	_, err := h.db.Exec(`UPDATE macro_runs SET status = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`, string(status), runID)
	if err != nil {
		return fmt.Errorf("ошибка обновления прогона: %w", err)
	}
	return nil
}

// GetLatestUnexecutedAction возвращает последнее невыполненное действие
func (h *DatabaseManager) GetLatestUnexecutedAction() (*Action, error) {
	row := h.db.QueryRow(`SELECT id, action, created_at FROM actions WHERE executed = FALSE ORDER BY created_at DESC, id DESC LIMIT 1`)
	var a Action
	if err := row.Scan(&a.ID, &a.Action, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения действий: %w", err)
	}
	return &a, nil
}

// MarkActionAsExecuted помечает действие как выполненное
func (h *DatabaseManager) MarkActionAsExecuted(id int) error {
	if _, err := h.db.Exec(`UPDATE actions SET executed = TRUE WHERE id = ?`, id); err != nil {
		return fmt.Errorf("ошибка пометки действия: %w", err)
	}
	return nil
}

// AddAction добавляет действие (используется командой stop)
func (h *DatabaseManager) AddAction(action string) error {
	if _, err := h.db.Exec(`INSERT INTO actions (action) VALUES (?)`, action); err != nil {
		return fmt.Errorf("ошибка добавления действия: %w", err)
	}
	return nil
}

// StopRequested проверяет действие "stop" и помечает его выполненным
func (h *DatabaseManager) StopRequested() (bool, error) {
	action, err := h.GetLatestUnexecutedAction()
	if err != nil || action == nil || action.Action != ActionStop {
		return false, err
	}

	h.logger.Info("🛑 Обнаружено действие 'stop' в базе данных (ID: %d)", action.ID)
	if err := h.MarkActionAsExecuted(action.ID); err != nil {
		h.logger.LogError(err, "Ошибка пометки действия как выполненного")
	}
	return true, nil
}

// RecentRuns последние прогоны, новые первыми
func (h *DatabaseManager) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := h.db.Query(`SELECT id, total_steps, status, started_at, finished_at FROM macro_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения прогонов: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.TotalSteps, &r.Status, &r.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("ошибка чтения прогона: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
