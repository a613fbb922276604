package calibration

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrParamsFileMissing файл параметров отсутствует или испорчен; используется смещение (0, 0)
var ErrParamsFileMissing = errors.New("файл параметров смещения не найден")

// OffsetParams систематическое смещение между запрошенной и фактической позицией курсора
type OffsetParams struct {
	OffsetX float64
	OffsetY float64
}

// Apply добавляет смещение к координатам и округляет до пикселя
func (p OffsetParams) Apply(x, y int) (int, int) {
	return int(math.Round(float64(x) + p.OffsetX)), int(math.Round(float64(y) + p.OffsetY))
}

func (p OffsetParams) String() string {
	return fmt.Sprintf("(%v, %v)", p.OffsetX, p.OffsetY)
}

// ParamsStore хранит OffsetParams в текстовом файле: две строки с числами
type ParamsStore struct {
	path string
}

// NewParamsStore создает новый экземпляр ParamsStore
func NewParamsStore(path string) *ParamsStore {
	return &ParamsStore{path: path}
}

func (s *ParamsStore) Path() string {
	return s.path
}

// Load читает параметры. Если файла нет или он испорчен, возвращает (0, 0)
// вместе с ошибкой, обернутой в ErrParamsFileMissing, чтобы вызывающий мог это залогировать.
func (s *ParamsStore) Load() (OffsetParams, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return OffsetParams{}, fmt.Errorf("%w: %v", ErrParamsFileMissing, err)
	}
	defer file.Close()

	var values []float64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && len(values) < 2 {
		line := strings.TrimSpace(scanner.Text())
		v, err := strconv.ParseFloat(line, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return OffsetParams{}, fmt.Errorf("%w: некорректное значение %q", ErrParamsFileMissing, line)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return OffsetParams{}, fmt.Errorf("%w: %v", ErrParamsFileMissing, err)
	}
	if len(values) < 2 {
		return OffsetParams{}, fmt.Errorf("%w: ожидалось 2 значения, найдено %d", ErrParamsFileMissing, len(values))
	}

	return OffsetParams{OffsetX: values[0], OffsetY: values[1]}, nil
}

// Save записывает параметры целиком. Формат 'g' с точностью -1 дает точное обратное чтение.
func (s *ParamsStore) Save(p OffsetParams) error {
	data := strconv.FormatFloat(p.OffsetX, 'g', -1, 64) + "\n" +
		strconv.FormatFloat(p.OffsetY, 'g', -1, 64) + "\n"
	if err := os.WriteFile(s.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("ошибка сохранения параметров смещения: %w", err)
	}
	return nil
}
