package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"macroplay/internal/arduino"
	"macroplay/internal/calibration"
	"macroplay/internal/command"
	"macroplay/internal/config"
	"macroplay/internal/database"
	imageInternal "macroplay/internal/image"
	"macroplay/internal/input"
	"macroplay/internal/logger"
	"macroplay/internal/osutils"
	"macroplay/internal/screen"
)

// app общие зависимости подкоманд; порт и БД открываются по требованию
type app struct {
	configPath string
	cfg        config.Config
	logger     *logger.LoggerManager
	closers    []func()
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "macroplay",
		Short: "Запись и воспроизведение макросов мыши и клавиатуры",
		Long: `macroplay воспроизводит упорядоченный список команд (перемещение курсора
по координатам или по эталонному изображению, клики, ввод текста, сочетания клавиш)
с поправкой на смещение курсора, найденной калибровкой.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.close() },
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "путь к config.yaml")

	rootCmd.AddCommand(
		a.calibrateCmd(),
		a.runCmd(),
		a.watchCmd(),
		a.locateCmd(),
		a.captureCmd(),
		a.stopCmd(),
		a.historyCmd(),
		a.commandsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		a.close()
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	c, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = c

	// Инициализация логгера
	loggerManager, err := logger.NewLoggerManager(c.LogFilePath)
	if err != nil {
		log.Printf("Error initializing logger: %v", err)
		return err
	}
	a.logger = loggerManager
	a.closers = append(a.closers, func() { loggerManager.Close() })

	// До любых координат: иначе на экранах с масштабом курсор и снимок расходятся
	if err := osutils.EnableDPIAwareness(); err != nil {
		a.logger.LogError(err, "DPI awareness не включена")
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// backend открывает выбранное устройство ввода
func (a *app) backend() (input.Backend, error) {
	if a.cfg.Input.Backend != config.BackendArduino {
		return input.NewRobotBackend(), nil
	}

	// Инициализация порта с использованием значений из конфигурации
	portObj, err := arduino.InitializePort(a.cfg.Port, a.cfg.BaudRate)
	if err != nil {
		return nil, fmt.Errorf("error opening arduino port: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := portObj.Close(); err != nil {
			a.logger.LogError(err, "Error closing port")
		}
	})
	a.logger.Info("🔌 Arduino подключена на %s", a.cfg.Port)
	return input.NewArduinoBackend(arduino.NewController(portObj)), nil
}

func (a *app) locator() *imageInternal.ScreenLocator {
	return imageInternal.NewScreenLocator(screen.NewPrimaryDisplay(), a.cfg.Locator.PyramidScale, a.cfg.Locator.RefineRadius, a.logger.With("locator"))
}

// journal подключает журнал в MySQL, если save_to_db = 1
func (a *app) journal() (*database.DatabaseManager, error) {
	if a.cfg.SaveToDB != 1 {
		return nil, nil
	}
	db, err := database.Open(a.cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { db.Close() })

	dbManager := database.NewDatabaseManager(db, a.logger.With("database"))
	if err := dbManager.EnsureSchema(); err != nil {
		return nil, err
	}
	a.logger.Info("✅ Успешное подключение к базе данных")
	return dbManager, nil
}

// offsetParams читает параметры смещения; без файла работаем с (0, 0)
func (a *app) offsetParams() calibration.OffsetParams {
	params, err := calibration.NewParamsStore(a.cfg.OffsetParamsPath).Load()
	if err != nil {
		a.logger.Info("⚠️ %v, используем смещение (0, 0)", err)
	}
	return params
}

// loadCommands читает список команд; отсутствие файла дает пустой список
func (a *app) loadCommands() (command.CommandList, error) {
	editor, err := a.editor()
	if err != nil {
		return nil, err
	}
	return editor.Commands(), nil
}

func (a *app) editor() (*command.Editor, error) {
	editor, err := command.NewEditor(command.NewStore(a.cfg.CommandsPath))
	if err != nil {
		if editor == nil {
			return nil, err
		}
		a.logger.Info("⚠️ %v, начинаем с пустого списка", err)
	}
	return editor, nil
}
