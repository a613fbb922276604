package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"macroplay/internal/calibration"
	"macroplay/internal/executor"
	imageInternal "macroplay/internal/image"
	"macroplay/internal/input"
	"macroplay/internal/interrupt"
	"macroplay/internal/screen"
)

func (a *app) calibrateCmd() *cobra.Command {
	var (
		lr         float64
		iterations int
		testClick  bool
		testText   string
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Подобрать смещение курсора и сохранить его",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lr") {
				lr = a.cfg.Calibration.LearningRate
			}
			if !cmd.Flags().Changed("iterations") {
				iterations = a.cfg.Calibration.Iterations
			}

			backend, err := a.backend()
			if err != nil {
				return err
			}
			store := calibration.NewParamsStore(a.cfg.OffsetParamsPath)
			calibrator := calibration.NewCalibrator(backend, screen.NewPrimaryDisplay(), store, a.cfg.Calibration.SettleDelay, a.logger.With("calibration"))

			params, err := calibrator.Calibrate(lr, iterations)
			if err != nil {
				return err
			}
			fmt.Printf("Смещение: %s (сохранено в %s)\n", params, store.Path())

			if testClick {
				a.logger.Info("🖱️ Проверочный клик")
				if err := backend.Click(input.ButtonLeft, 1); err != nil {
					return err
				}
			}
			if testText != "" {
				a.logger.Info("⌨️ Проверочный ввод текста")
				if err := input.Paste(backend, a.cfg.Input.PasteModifier, testText); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lr, "lr", 0.1, "шаг обучения (по умолчанию calibration.learning_rate)")
	cmd.Flags().IntVar(&iterations, "iterations", 10, "число итераций (по умолчанию calibration.iterations)")
	cmd.Flags().BoolVar(&testClick, "test-click", false, "после калибровки кликнуть в текущей позиции")
	cmd.Flags().StringVar(&testText, "test-text", "", "после калибровки вставить этот текст")
	return cmd
}

// newEngine собирает Engine; stop прерывает прогон между шагами
func (a *app) newEngine(interrupts <-chan bool) (*executor.Engine, error) {
	backend, err := a.backend()
	if err != nil {
		return nil, err
	}
	opts := []executor.Option{
		executor.WithThreshold(a.cfg.Locator.Threshold),
		executor.WithPasteModifier(a.cfg.Input.PasteModifier),
		executor.WithInterrupts(interrupts),
	}
	dbManager, err := a.journal()
	if err != nil {
		return nil, err
	}
	if dbManager != nil {
		opts = append(opts, executor.WithJournal(dbManager))
	}
	return executor.NewEngine(backend, a.locator(), a.logger.With("executor"), opts...), nil
}

func (a *app) execute(ctx context.Context, engine *executor.Engine) error {
	commands, err := a.loadCommands()
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		a.logger.Info("⚠️ Список команд пуст (%s)", a.cfg.CommandsPath)
		return nil
	}

	report, err := engine.Execute(ctx, commands, a.offsetParams())
	if err != nil {
		return err
	}
	fmt.Printf("%s: выполнено %d, пропущено %d, ошибок %d\n", report.Status,
		report.Count(executor.OutcomeDone), report.Count(executor.OutcomeSkipped), report.Count(executor.OutcomeFailed))
	return nil
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Выполнить список команд один раз",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			interruptManager := interrupt.NewInterruptManager(a.logger.With("interrupt"))
			if a.cfg.Hotkeys.Enabled {
				interruptManager.StartMonitoring()
			}
			engine, err := a.newEngine(interruptManager.GetScriptInterruptChan())
			if err != nil {
				return err
			}

			interruptManager.SetScriptRunning(true)
			defer interruptManager.SetScriptRunning(false)
			return a.execute(ctx, engine)
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Ждать Shift+Enter и выполнять список команд, Q прерывает",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			interruptManager := interrupt.NewInterruptManager(a.logger.With("interrupt"))
			engine, err := a.newEngine(interruptManager.GetScriptInterruptChan())
			if err != nil {
				return err
			}

			// запускаем мониторинг горячих клавиш
			interruptManager.StartMonitoring()
			a.logger.Info("⏸️ Программа готова к работе. Нажмите Shift+Enter для запуска, Q для прерывания")

			for {
				select {
				case <-ctx.Done():
					a.logger.Info("👋 Завершение")
					return nil
				case <-interruptManager.GetScriptStartChan():
				}

				a.logger.Info("🚀 Запуск макроса...")
				interruptManager.SetScriptRunning(true)
				// список перечитывается: его могли изменить между запусками
				if err := a.execute(ctx, engine); err != nil {
					a.logger.LogError(err, "Ошибка выполнения макроса")
				}
				interruptManager.SetScriptRunning(false)
				a.logger.Info("✅ Макрос завершен. Нажмите Shift+Enter для повторного запуска")
			}
		},
	}
}

func (a *app) locateCmd() *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "locate <image>",
		Short: "Найти эталонное изображение на экране",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Locator.Threshold
			}
			res, err := a.locator().LocateFile(args[0], threshold)
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Printf("%s: не найдено (порог %.2f)\n", args[0], threshold)
				return nil
			}
			fmt.Printf("%s: центр (%d, %d), оценка %.4f\n", args[0], res.Center.X, res.Center.Y, res.Confidence)
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "минимальная оценка совпадения (по умолчанию locator.threshold)")
	return cmd
}

func (a *app) captureCmd() *cobra.Command {
	var x, y, w, h int
	cmd := &cobra.Command{
		Use:   "capture <out.png>",
		Short: "Сохранить область экрана как эталонное изображение",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if w <= 0 || h <= 0 {
				return fmt.Errorf("размер области должен быть положительным: %dx%d", w, h)
			}
			img, err := screen.CaptureRegion(image.Rect(x, y, x+w, y+h))
			if err != nil {
				return err
			}
			if err := imageInternal.SaveReference(img, args[0]); err != nil {
				return err
			}
			a.logger.Info("📸 Область %dx%d от (%d, %d) сохранена в %s", w, h, x, y, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&x, "x", 0, "левый край")
	cmd.Flags().IntVar(&y, "y", 0, "верхний край")
	cmd.Flags().IntVar(&w, "w", 0, "ширина")
	cmd.Flags().IntVar(&h, "h", 0, "высота")
	return cmd
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Попросить запущенный макрос остановиться (через базу данных)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbManager, err := a.journal()
			if err != nil {
				return err
			}
			if dbManager == nil {
				return fmt.Errorf("журнал отключен: нужен save_to_db = 1")
			}
			return dbManager.AddAction("stop")
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Последние прогоны из журнала",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbManager, err := a.journal()
			if err != nil {
				return err
			}
			if dbManager == nil {
				return fmt.Errorf("журнал отключен: нужен save_to_db = 1")
			}
			runs, err := dbManager.RecentRuns(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("#%d  %s  шагов: %d  начат: %s\n", r.ID, r.Status, r.TotalSteps, r.StartedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "сколько прогонов показать")
	return cmd
}
