package doctor

import (
	"context"
	"fmt"
	"os"
)

// StorageCheck verifies the data directory is usable and reports whether
// sessions and preferences are persisted. With autofix a missing data
// directory is created.
type StorageCheck struct {
	dataDir    string
	persistent bool
	autofix    bool
}

// NewStorageCheck creates a new storage check. persistent reports whether
// the sqlite store opened; false means state lives in memory for this run.
func NewStorageCheck(dataDir string, persistent, autofix bool) *StorageCheck {
	return &StorageCheck{dataDir: dataDir, persistent: persistent, autofix: autofix}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	item, ok := c.checkDir()
	result.Items = append(result.Items, item)
	if !ok {
		return result
	}

	result.Items = append(result.Items, c.checkWritable())

	if c.persistent {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusPass,
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusWarn,
			Detail: "not available, sessions and preferences are not saved",
		})
	}

	return result
}

// checkDir reports the data directory state. ok is false when later items
// cannot run.
func (c *StorageCheck) checkDir() (CheckItem, bool) {
	info, err := os.Stat(c.dataDir)
	switch {
	case os.IsNotExist(err):
		if !c.autofix {
			return CheckItem{
				Label:   c.dataDir,
				Status:  StatusWarn,
				Detail:  "directory does not exist",
				Fixable: true,
			}, false
		}
		if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
			return CheckItem{
				Label:  c.dataDir,
				Status: StatusFail,
				Detail: fmt.Sprintf("create failed: %v", err),
			}, false
		}
		return CheckItem{Label: c.dataDir, Status: StatusPass, Detail: "created"}, true
	case err != nil:
		return CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		}, false
	case !info.IsDir():
		return CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: "path is not a directory",
		}, false
	default:
		return CheckItem{Label: c.dataDir, Status: StatusPass}, true
	}
}

func (c *StorageCheck) checkWritable() CheckItem {
	f, err := os.CreateTemp(c.dataDir, ".doctor-*")
	if err != nil {
		return CheckItem{
			Label:  "writable",
			Status: StatusFail,
			Detail: err.Error(),
		}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return CheckItem{Label: "writable", Status: StatusPass}
}
