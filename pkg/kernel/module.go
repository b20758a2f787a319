// SPDX-License-Identifier: Apache-2.0

package kernel

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/joomcode/errorx"
	"pault.ag/go/modprobe"
)

// modulesLoadDir is scanned by systemd-modules-load at boot. A module is
// persisted by dropping a one-line conf file named after it.
const modulesLoadDir = "/etc/modules-load.d"

const procModules = "/proc/modules"

const persistFileMode = 0o644

// defaultModule manages a single kernel module by name.
type defaultModule struct {
	name string
	ops  moduleOperations
}

// NewModule returns a Module for the named kernel module. The name is not
// resolved against the running kernel here, so a module that does not exist
// only fails at Load time.
func NewModule(name string) (Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errorx.IllegalArgument.New("kernel module name must not be empty")
	}

	return &defaultModule{
		name: name,
		ops:  &defaultModuleOperations{},
	}, nil
}

// Name returns the module name.
func (m *defaultModule) Name() string {
	return m.name
}

// Load inserts the module unless it is already resident. With persist it
// also writes the modules-load.d entry so the module survives reboots.
func (m *defaultModule) Load(persist bool) error {
	loaded, err := m.ops.isLoaded(m.name)
	if err != nil {
		return err
	}

	if !loaded {
		if err := m.ops.load(m.name); err != nil {
			return err
		}
	}

	if persist {
		if err := m.ops.persist(m.name); err != nil {
			return err
		}
	}

	return nil
}

// Unload removes the module if it is resident. With unpersist it removes the
// modules-load.d entry first, so a failed unload still leaves the module out
// of the boot configuration.
func (m *defaultModule) Unload(unpersist bool) error {
	if unpersist {
		if err := m.ops.unpersist(m.name); err != nil {
			return err
		}
	}

	loaded, err := m.ops.isLoaded(m.name)
	if err != nil {
		return err
	}

	if !loaded {
		return nil
	}

	return m.ops.unload(m.name)
}

// IsLoaded reports whether the module is resident in the running kernel and
// whether it is configured to load at boot.
func (m *defaultModule) IsLoaded() (bool, bool, error) {
	loaded, err := m.ops.isLoaded(m.name)
	if err != nil {
		return false, false, err
	}

	persisted, err := m.ops.isPersisted(m.name)
	if err != nil {
		return loaded, false, err
	}

	return loaded, persisted, nil
}

// defaultModuleOperations implements moduleOperations against the running
// system: modprobe syscalls, /proc/modules and /etc/modules-load.d.
type defaultModuleOperations struct{}

func (o *defaultModuleOperations) load(name string) error {
	if err := modprobe.Load(name, ""); err != nil {
		return errorx.InternalError.Wrap(err, "failed to load kernel module %s", name)
	}

	return nil
}

func (o *defaultModuleOperations) unload(name string) error {
	if err := modprobe.Remove(name); err != nil {
		return errorx.InternalError.Wrap(err, "failed to unload kernel module %s", name)
	}

	return nil
}

func (o *defaultModuleOperations) persist(name string) error {
	if err := os.MkdirAll(modulesLoadDir, 0o755); err != nil {
		return errorx.InternalError.Wrap(err, "failed to create %s", modulesLoadDir)
	}

	path := persistFilePath(name)
	if err := os.WriteFile(path, []byte(name+"\n"), persistFileMode); err != nil {
		return errorx.InternalError.Wrap(err, "failed to write module load configuration %s", path)
	}

	return nil
}

func (o *defaultModuleOperations) unpersist(name string) error {
	path := persistFilePath(name)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errorx.InternalError.Wrap(err, "failed to remove module load configuration %s", path)
	}

	return nil
}

func (o *defaultModuleOperations) isLoaded(name string) (bool, error) {
	f, err := os.Open(procModules)
	if err != nil {
		return false, errorx.InternalError.Wrap(err, "failed to open %s", procModules)
	}
	defer f.Close()

	want := normalizeModuleName(name)

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 && fields[0] == want {
			return true, nil
		}
	}

	if err := sc.Err(); err != nil {
		return false, errorx.InternalError.Wrap(err, "failed to scan %s", procModules)
	}

	return false, nil
}

func (o *defaultModuleOperations) isPersisted(name string) (bool, error) {
	_, err := os.Stat(persistFilePath(name))
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, errorx.InternalError.Wrap(err, "failed to stat module load configuration for %s", name)
}

func persistFilePath(name string) string {
	return filepath.Join(modulesLoadDir, name+".conf")
}

// normalizeModuleName maps dashes to underscores the way the kernel does when
// it registers a module in /proc/modules.
func normalizeModuleName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
