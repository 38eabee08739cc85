package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"EnerTrack/api/billing"
	"EnerTrack/api/energy"
	"EnerTrack/api/invoices"
	"EnerTrack/api/powerquality"
	"EnerTrack/api/pwmreport"
	"EnerTrack/api/rectifiers"
	"EnerTrack/api/registry"
	"EnerTrack/internal/archive"
	"EnerTrack/internal/config"
	"EnerTrack/internal/ingest"
	"EnerTrack/internal/logger"
)

// Inbox imports report files dropped into a directory by the monitoring
// platforms. The filename prefix picks the pipeline; processed files move
// to done/, rejected ones to failed/.
type Inbox struct {
	Dir          string
	Registry     registry.Store
	Billing      billing.Store
	Energy       energy.Store
	PowerQuality powerquality.Store
	PWM          pwmreport.Store
	Rectifiers   rectifiers.Store
	Invoices     invoices.Store
}

// Filename prefixes, in match order. "sites_" is the per-site energy
// report, "energy_" the per-country one.
var inboxKinds = []struct {
	prefix string
	kind   string
}{
	{"billing_", "billing"},
	{"energy_", "energy"},
	{"sites_", "sites"},
	{"pq_", "powerquality"},
	{"pwm_", "pwm"},
	{"rectifier_", "rectifiers"},
	{"factures_", "invoices"},
}

func kindForFilename(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, k := range inboxKinds {
		if strings.HasPrefix(lower, k.prefix) {
			return k.kind, true
		}
	}
	return "", false
}

func importableExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// Scan runs one pass over the inbox. Unrecognized files stay where they
// are so an operator can rename them.
func (ib *Inbox) Scan(ctx context.Context) error {
	for _, sub := range []string{config.DoneSubdir, config.FailedSubdir} {
		if err := os.MkdirAll(filepath.Join(ib.Dir, sub), 0755); err != nil {
			return err
		}
	}
	entries, err := os.ReadDir(ib.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !importableExt(e.Name()) {
			continue
		}
		kind, ok := kindForFilename(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(ib.Dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Audit("inbox: cannot read %s: %v", e.Name(), err)
			continue
		}
		if err := ib.dispatch(ctx, kind, data, e.Name()); err != nil {
			logger.Audit("inbox: %s rejected: %v", e.Name(), err)
			os.Rename(path, filepath.Join(ib.Dir, config.FailedSubdir, e.Name()))
			continue
		}
		logger.Audit("inbox: %s imported as %s", e.Name(), kind)
		if archive.Enabled() {
			if _, err := archive.Upload(ctx, archive.BuildKey(kind, e.Name()), data); err != nil {
				logger.Audit("inbox: archive of %s failed: %v", e.Name(), err)
			}
		}
		os.Rename(path, filepath.Join(ib.Dir, config.DoneSubdir, e.Name()))
	}
	return nil
}

func (ib *Inbox) dispatch(ctx context.Context, kind string, data []byte, filename string) error {
	ictx := ingest.ImportContext{}
	switch kind {
	case "billing":
		imp := &billing.Importer{Store: ib.Billing}
		_, err := imp.Import(ctx, data, filename, ictx)
		return err
	case "energy":
		imp := &energy.Importer{Registry: ib.Registry, Store: ib.Energy}
		_, err := imp.ImportCountry(ctx, data, filename, ictx)
		return err
	case "sites":
		imp := &energy.Importer{Registry: ib.Registry, Store: ib.Energy}
		_, err := imp.ImportSites(ctx, data, filename, ictx)
		return err
	case "powerquality":
		imp := &powerquality.Importer{Registry: ib.Registry, Store: ib.PowerQuality}
		_, err := imp.Import(ctx, data, filename, ictx)
		return err
	case "pwm":
		imp := &pwmreport.Importer{Registry: ib.Registry, Store: ib.PWM}
		_, err := imp.Import(ctx, data, filename, ictx)
		return err
	case "rectifiers":
		imp := &rectifiers.Importer{Registry: ib.Registry, Store: ib.Rectifiers}
		_, err := imp.Import(ctx, data, filename, ictx)
		return err
	case "invoices":
		imp := &invoices.Importer{Registry: ib.Registry, Store: ib.Invoices}
		_, err := imp.Import(ctx, data, filename)
		return err
	}
	return fmt.Errorf("no importer for kind %q", kind)
}
