// Package keychain optionally stores an API key in an OS keychain through
// the platform's CLI tools. Nothing here ever reaches the emitted config,
// which only carries the env-var name the key should be exported under.
package keychain

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

const service = "codexlink"

// Backends supported by the --keychain flag, beyond "none" and "auto".
var Backends = []string{"none", "auto", "macos", "secretstorage", "pass", "op", "bw"}

// Resolve maps "auto" to the conventional backend for the current OS.
func Resolve(backend string) string {
	if backend != "auto" {
		return backend
	}
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "linux":
		return "secretstorage"
	default:
		return "none"
	}
}

// Store writes the key under name into the chosen backend. Returns an error
// when the backend tool is missing or rejects the entry; callers treat this
// as a warning, never a failed run.
func Store(backend, name, key string) error {
	switch Resolve(backend) {
	case "none", "":
		return nil
	case "macos":
		return run("security", "add-generic-password", "-U",
			"-s", service, "-a", name, "-w", key)
	case "secretstorage":
		cmd := exec.Command("secret-tool", "store",
			"--label", service+" "+name, "service", service, "account", name)
		cmd.Stdin = strings.NewReader(key)
		return wrapRun(cmd)
	case "pass":
		cmd := exec.Command("pass", "insert", "-m", "-f", service+"/"+name)
		cmd.Stdin = strings.NewReader(key + "\n")
		return wrapRun(cmd)
	case "op":
		return run("op", "item", "create", "--category=password",
			"--title="+service+" "+name, "password="+key)
	case "bw":
		return fmt.Errorf("bitwarden storage requires an unlocked vault; store manually with `bw`")
	default:
		return fmt.Errorf("unknown keychain backend %q", backend)
	}
}

func run(name string, args ...string) error {
	return wrapRun(exec.Command(name, args...))
}

func wrapRun(cmd *exec.Cmd) error {
	if cmd.Err != nil {
		return fmt.Errorf("keychain tool unavailable: %w", cmd.Err)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %v: %s", cmd.Path, err, out)
	}
	return nil
}
