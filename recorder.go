package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"
)

const recorderQueueSize = 8

// TelemetryRecorder samples telemetry into SQLite while recording. Samples
// are handed to a writer goroutine so the dispatch path never waits on disk.
type TelemetryRecorder struct {
	db       *sql.DB
	interval time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	recording  bool
	samples    chan InstrumentView
	stopCh     chan struct{}
	stopped    chan struct{}
	startTime  time.Time
	lastSample time.Time
	dataCount  int
	dropped    int
}

func NewTelemetryRecorder(db *sql.DB, interval time.Duration, logger *slog.Logger) *TelemetryRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelemetryRecorder{
		db:       db,
		interval: interval,
		logger:   logger,
	}
}

// Callbacks wires the recorder to a session. When autoStart reports true,
// recording starts on connect; it always stops on disconnect, leaving the
// writer to drain in the background.
func (r *TelemetryRecorder) Callbacks(autoStart func() bool) Callbacks {
	return Callbacks{
		Connected: func() {
			if autoStart != nil && autoStart() {
				if err := r.Start(); err != nil {
					r.logger.Warn("failed to start recording", "error", err)
				}
			}
		},
		Disconnected: func() {
			r.halt()
		},
		TelemetryUpdated: r.Offer,
	}
}

// Offer queues d if recording and the sample interval has elapsed. A full
// queue drops the sample.
func (r *TelemetryRecorder) Offer(d AircraftData) {
	now := time.Now()

	r.mu.Lock()
	if !r.recording || now.Sub(r.lastSample) < r.interval {
		r.mu.Unlock()
		return
	}
	r.lastSample = now
	samples := r.samples
	r.mu.Unlock()

	select {
	case samples <- NewInstrumentView(d):
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

func (r *TelemetryRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("already recording")
	}

	r.recording = true
	r.samples = make(chan InstrumentView, recorderQueueSize)
	r.stopCh = make(chan struct{})
	r.stopped = make(chan struct{})
	r.startTime = time.Now()
	r.lastSample = time.Time{}
	r.dataCount = 0
	r.dropped = 0

	go r.writeLoop(r.samples, r.stopCh, r.stopped)

	r.logger.Info("recording started", "interval", r.interval)
	return nil
}

// Stop ends recording and waits for queued samples to be written.
func (r *TelemetryRecorder) Stop() {
	<-r.halt()
}

// halt ends recording without waiting. The returned channel closes once the
// writer has drained its queue.
func (r *TelemetryRecorder) halt() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	if r.recording {
		r.recording = false
		close(r.stopCh)
		r.logger.Info("recording stopped")
	}
	return r.stopped
}

func (r *TelemetryRecorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

func (r *TelemetryRecorder) Info() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	duration := 0.0
	if r.recording {
		duration = time.Since(r.startTime).Seconds()
	}

	return map[string]interface{}{
		"recording": r.recording,
		"duration":  duration,
		"dataCount": r.dataCount,
		"dropped":   r.dropped,
	}
}

func (r *TelemetryRecorder) writeLoop(samples <-chan InstrumentView, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case v := <-samples:
			r.insert(v)
		case <-stop:
			for {
				select {
				case v := <-samples:
					r.insert(v)
				default:
					return
				}
			}
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *TelemetryRecorder) insert(v InstrumentView) {
	_, err := r.db.Exec(
		`INSERT INTO telemetry (roll, pitch, heading, gear_percent, gear_down, parking_brake, autopilot,
			eng1_n1, eng2_n1, eng3_n1, eng4_n1, throttle1, throttle2, throttle3, throttle4)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.RollDegrees, v.PitchDegrees, v.HeadingDegrees, v.GearPercent,
		boolInt(v.GearHandle == "down"), boolInt(v.ParkingBrake), boolInt(v.AutopilotEngaged),
		v.EngineN1[0], v.EngineN1[1], v.EngineN1[2], v.EngineN1[3],
		v.Throttle[0], v.Throttle[1], v.Throttle[2], v.Throttle[3],
	)
	if err != nil {
		r.logger.Error("failed to insert telemetry", "error", err)
		return
	}

	r.mu.Lock()
	r.dataCount++
	r.mu.Unlock()
}

var csvColumns = []string{
	"timestamp", "roll", "pitch", "heading", "gear_percent", "gear_down", "parking_brake", "autopilot",
	"eng1_n1", "eng2_n1", "eng3_n1", "eng4_n1", "throttle1", "throttle2", "throttle3", "throttle4",
}

// ExportCSV writes every recorded sample to filePath and then purges them.
func (r *TelemetryRecorder) ExportCSV(filePath string) error {
	rows, err := r.db.Query(`SELECT timestamp, roll, pitch, heading, gear_percent, gear_down, parking_brake, autopilot,
		eng1_n1, eng2_n1, eng3_n1, eng4_n1, throttle1, throttle2, throttle3, throttle4 FROM telemetry ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query data: %w", err)
	}
	defer rows.Close()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for rows.Next() {
		var ts string
		var floats [8]float64
		var flags [3]int
		var thr [4]float64
		if err := rows.Scan(&ts, &floats[0], &floats[1], &floats[2], &floats[3], &flags[0], &flags[1], &flags[2],
			&floats[4], &floats[5], &floats[6], &floats[7], &thr[0], &thr[1], &thr[2], &thr[3]); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}

		record := []string{ts}
		for _, f := range floats[:4] {
			record = append(record, strconv.FormatFloat(f, 'f', 2, 64))
		}
		for _, flag := range flags {
			record = append(record, strconv.Itoa(flag))
		}
		for _, f := range append(floats[4:], thr[:]...) {
			record = append(record, strconv.FormatFloat(f, 'f', 2, 64))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read rows: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	// Purge DB after export
	if _, err := r.db.Exec(`DELETE FROM telemetry`); err != nil {
		return fmt.Errorf("purge db: %w", err)
	}

	r.mu.Lock()
	r.dataCount = 0
	r.mu.Unlock()

	return nil
}
