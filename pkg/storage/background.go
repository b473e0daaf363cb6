package storage

import (
	"log"
	"time"
)

// StartBackgroundWorkers starts the periodic snapshot saver when background
// saves are enabled and a data file is configured.
func (e *Engine) StartBackgroundWorkers() {
	if !e.backgroundSave || e.dataFile == "" {
		return
	}

	e.backgroundWg.Add(1)
	go func() {
		defer e.backgroundWg.Done()
		ticker := time.NewTicker(e.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.dirtyMu.Lock()
				dirty := e.dirty
				e.dirtyMu.Unlock()
				if !dirty {
					continue
				}
				if err := e.SaveToFile(""); err != nil {
					log.Printf("ERROR: Background save failed: %v", err)
				} else {
					log.Printf("INFO: Background save completed to %s", e.dataFile)
				}
			case <-e.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops the background saver and waits for it to
// finish. Safe to call when no workers were started.
func (e *Engine) StopBackgroundWorkers() {
	select {
	case <-e.stopChan:
		// already closed
	default:
		close(e.stopChan)
	}
	e.backgroundWg.Wait()
}
