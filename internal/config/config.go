package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Структура для настроек устройства ввода
type Input struct {
	Backend       string `mapstructure:"backend"`        // robotgo или arduino
	PasteModifier string `mapstructure:"paste_modifier"` // модификатор для вставки из буфера (ctrl/cmd)
}

// Структура для настроек калибровки
type Calibration struct {
	LearningRate float64       `mapstructure:"learning_rate"`
	Iterations   int           `mapstructure:"iterations"`
	SettleDelay  time.Duration `mapstructure:"settle_delay"`
}

// Структура для настроек поиска изображения на экране
type Locator struct {
	Threshold    float64 `mapstructure:"threshold"`
	PyramidScale int     `mapstructure:"pyramid_scale"` // 1 - без грубого прохода
	RefineRadius int     `mapstructure:"refine_radius"`
}

// Структура для горячих клавиш
type Hotkeys struct {
	Enabled bool `mapstructure:"enabled"`
}

// Основная структура конфигурации
type Config struct {
	LogFilePath      string      `mapstructure:"log_file_path"`
	OffsetParamsPath string      `mapstructure:"offset_params_path"`
	CommandsPath     string      `mapstructure:"commands_path"`
	Port             string      `mapstructure:"port"`
	BaudRate         int         `mapstructure:"baud_rate"`
	SaveToDB         int         `mapstructure:"save_to_db"`
	DatabaseDSN      string      `mapstructure:"database_dsn"`
	Input            Input       `mapstructure:"input"`
	Calibration      Calibration `mapstructure:"calibration"`
	Locator          Locator     `mapstructure:"locator"`
	Hotkeys          Hotkeys     `mapstructure:"hotkeys"`
}

const (
	BackendRobotgo = "robotgo"
	BackendArduino = "arduino"
)

// SetDefaults регистрирует значения по умолчанию для всех ключей
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_file_path", "logs/macroplay.log")
	v.SetDefault("offset_params_path", "offset_params.txt")
	v.SetDefault("commands_path", "rule.json")
	v.SetDefault("port", "COM3")
	v.SetDefault("baud_rate", 9600)
	v.SetDefault("save_to_db", 0)
	v.SetDefault("database_dsn", "")
	v.SetDefault("input.backend", BackendRobotgo)
	v.SetDefault("input.paste_modifier", "")
	v.SetDefault("calibration.learning_rate", 0.1)
	v.SetDefault("calibration.iterations", 10)
	v.SetDefault("calibration.settle_delay", 100*time.Millisecond)
	v.SetDefault("locator.threshold", 0.8)
	v.SetDefault("locator.pyramid_scale", 1)
	v.SetDefault("locator.refine_radius", 4)
	v.SetDefault("hotkeys.enabled", true)
}

// Load читает конфигурацию из файла path (или config.yaml в текущей папке, если path пустой).
// Отсутствие файла не является ошибкой: используются значения по умолчанию.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // Имя конфигурационного файла без расширения
		v.AddConfigPath(".")      // Путь к файлу конфигурации
		v.SetConfigType("yaml")   // Формат файла
	}

	v.SetEnvPrefix("MACRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Чтение конфигурации; без config.yaml работаем на значениях по умолчанию
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate проверяет значения, которые нельзя исправить молча
func (c Config) Validate() error {
	switch c.Input.Backend {
	case BackendRobotgo, BackendArduino:
	default:
		return fmt.Errorf("неизвестный backend ввода: %q", c.Input.Backend)
	}
	if c.Locator.Threshold < -1 || c.Locator.Threshold > 1 {
		return fmt.Errorf("locator.threshold должен быть в диапазоне [-1, 1], получено %v", c.Locator.Threshold)
	}
	if c.Locator.PyramidScale < 1 {
		return fmt.Errorf("locator.pyramid_scale должен быть >= 1, получено %d", c.Locator.PyramidScale)
	}
	if c.Calibration.Iterations < 0 {
		return fmt.Errorf("calibration.iterations не может быть отрицательным: %d", c.Calibration.Iterations)
	}
	if c.SaveToDB == 1 && c.DatabaseDSN == "" {
		return fmt.Errorf("save_to_db = 1, но database_dsn не задан")
	}
	return nil
}
