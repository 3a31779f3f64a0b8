package main

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/browser"
	"github.com/wailsapp/wails/v3/pkg/application"
)

const sourceCodeURL = "https://github.com/zacario-li/msfs_dashboard"

// simController is the part of Driver the dashboard drives.
type simController interface {
	Connect() error
	Disconnect()
	IsConnected() bool
	Transmit(cmd CommandID, payload uint32) error
}

// DashboardService is bound to the frontend. It forwards session events to
// the window and turns button presses into simulator commands.
type DashboardService struct {
	sim      simController
	recorder *TelemetryRecorder
	logger   *slog.Logger
	openURL  func(string) error

	mu     sync.RWMutex
	emit   func(name string, data any)
	latest AircraftData
	seen   bool
}

func NewDashboardService(sim simController, recorder *TelemetryRecorder, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		sim:      sim,
		recorder: recorder,
		logger:   logger,
		openURL:  browser.OpenURL,
	}
}

func (d *DashboardService) setApp(app *application.App) {
	d.setEmitter(func(name string, data any) {
		app.Event.Emit(name, data)
	})
}

func (d *DashboardService) setEmitter(fn func(name string, data any)) {
	d.mu.Lock()
	d.emit = fn
	d.mu.Unlock()
}

func (d *DashboardService) send(name string, data any) {
	d.mu.RLock()
	emit := d.emit
	d.mu.RUnlock()
	if emit != nil {
		emit(name, data)
	}
}

// Callbacks forwards session events to the frontend.
func (d *DashboardService) Callbacks() Callbacks {
	return Callbacks{
		Connected: func() {
			d.send("sim-connected", true)
		},
		Disconnected: func() {
			d.mu.Lock()
			d.seen = false
			d.mu.Unlock()
			d.send("sim-disconnected", false)
		},
		ConnectFailed: func(err error) {
			d.send("sim-error", err.Error())
		},
		TelemetryUpdated: func(a AircraftData) {
			d.mu.Lock()
			d.latest = a
			d.seen = true
			d.mu.Unlock()
			d.send("sim-telemetry", NewInstrumentView(a))
		},
	}
}

func (d *DashboardService) Connect() error {
	return d.sim.Connect()
}

func (d *DashboardService) Disconnect() {
	d.sim.Disconnect()
}

func (d *DashboardService) IsConnected() bool {
	return d.sim.IsConnected()
}

// Commands lists the command keys SendCommand accepts.
func (d *DashboardService) Commands() []string {
	return CommandKeys()
}

func (d *DashboardService) SendCommand(key string, payload uint32) error {
	cmd, err := ParseCommand(key)
	if err != nil {
		return err
	}
	return d.sim.Transmit(cmd, payload)
}

// ToggleGear raises the gear if the handle is down and lowers it otherwise.
// Before the first telemetry frame the handle is assumed up.
func (d *DashboardService) ToggleGear() error {
	d.mu.RLock()
	down := d.seen && on(d.latest.GearHandle)
	d.mu.RUnlock()

	cmd := CmdGearDown
	if down {
		cmd = CmdGearUp
	}
	return d.sim.Transmit(cmd, 0)
}

// StartEngine toggles the starter of engine n, counted from 1.
func (d *DashboardService) StartEngine(n int) error {
	cmd, err := EngineStarter(n)
	if err != nil {
		return err
	}
	return d.sim.Transmit(cmd, 0)
}

func (d *DashboardService) StartRecording() error {
	if !d.sim.IsConnected() {
		return ErrNotConnected
	}
	if err := d.recorder.Start(); err != nil {
		return err
	}
	d.send("recording-state", true)
	return nil
}

func (d *DashboardService) StopRecording() {
	d.recorder.Stop()
	d.send("recording-state", false)
}

func (d *DashboardService) IsRecording() bool {
	return d.recorder.IsRecording()
}

func (d *DashboardService) GetRecordingInfo() map[string]interface{} {
	return d.recorder.Info()
}

func (d *DashboardService) ExportCSV(filePath string) error {
	return d.recorder.ExportCSV(filePath)
}

func (d *DashboardService) OpenSourceCode() error {
	if err := d.openURL(sourceCodeURL); err != nil {
		return fmt.Errorf("open %s: %w", sourceCodeURL, err)
	}
	return nil
}
