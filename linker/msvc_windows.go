//go:build windows

package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sys/execabs"
	"golang.org/x/sys/windows/registry"
)

// findMSVC locates the latest MSVC linker able to target targetArch along with
// the UCRT and Windows 10 SDK libraries.
func findMSVC(targetArch string) (*toolEnv, error) {
	vsArch, ok := llvmArchToVSArch[targetArch]
	if !ok {
		return nil, fmt.Errorf("no MSVC tools for architecture `%s`", targetArch)
	}

	instance, ok := findVSInstance(vsArch)
	if !ok {
		return nil, errors.New("missing MSVC build tools")
	}

	env, ok := findToolInVSInstance(instance.InstallPath, targetArch)
	if !ok {
		return nil, errors.New("unable to locate `link.exe`")
	}

	if err := addSDKs(env, targetArch); err != nil {
		return nil, err
	}

	return env, nil
}

// findVSInstance finds the latest VS 15+ instance with the VC tools for vsArch
// using `vswhere.exe`.
func findVSInstance(vsArch string) (vsInstance, bool) {
	vswherePath := filepath.Join(
		os.Getenv("ProgramFiles(x86)"),
		"Microsoft Visual Studio/Installer/vswhere.exe",
	)

	if _, err := os.Stat(vswherePath); err != nil {
		return vsInstance{}, false
	}

	output, err := execabs.Command(
		vswherePath,
		"-latest",
		"-products", "*",
		"-requires", "Microsoft.VisualStudio.Component.VC.Tools."+vsArch,
		"-format", "text",
		"-nologo",
	).Output()

	if err != nil {
		return vsInstance{}, false
	}

	return parseVSWhere(string(output))
}

// findToolInVSInstance finds `link.exe` in the VS 15+ instance at instancePath.
func findToolInVSInstance(instancePath, targetArch string) (*toolEnv, bool) {
	versionB, err := os.ReadFile(filepath.Join(instancePath, "VC/Auxiliary/Build/Microsoft.VCToolsVersion.default.txt"))
	if err != nil {
		return nil, false
	}

	basePath := filepath.Join(instancePath, "VC/Tools/MSVC", strings.TrimSpace(string(versionB)))

	hostArch := hostArchToVCHostSuffix[runtime.GOARCH]
	subDir := llvmArchToVCSubDir[targetArch]

	binPath := filepath.Join(basePath, "bin", "Host"+hostArch, subDir)
	env := &toolEnv{
		ToolPath:     filepath.Join(binPath, "link.exe"),
		BinPaths:     []string{binPath},
		LibPaths:     []string{filepath.Join(basePath, "lib", subDir)},
		IncludePaths: []string{filepath.Join(basePath, "include")},
	}

	if _, err := os.Stat(env.ToolPath); err != nil {
		return nil, false
	}

	return env, true
}

// addSDKs adds the UCRT and Windows 10 SDK paths to env.
func addSDKs(env *toolEnv, targetArch string) error {
	subDir := llvmArchToVCSubDir[targetArch]

	ucrtDir, ucrtVersion, ok := findKit(`SOFTWARE\Microsoft\Windows Kits\Installed Roots`, "KitsRoot10", "ucrt")
	if !ok {
		return errors.New("unable to find any UCRT installations")
	}

	env.IncludePaths = append(env.IncludePaths, filepath.Join(ucrtDir, "include", ucrtVersion, "ucrt"))
	env.LibPaths = append(env.LibPaths, filepath.Join(ucrtDir, "lib", ucrtVersion, "ucrt", subDir))

	sdkDir, sdkVersion, ok := findKit(`SOFTWARE\Microsoft\Microsoft SDKs\Windows\v10.0`, "InstallationFolder", "um")
	if !ok {
		return errors.New("unable to find any Windows 10 SDK installation")
	}

	env.LibPaths = append(env.LibPaths, filepath.Join(sdkDir, "lib", sdkVersion, "um", subDir))

	sdkInclude := filepath.Join(sdkDir, "include", sdkVersion)
	for _, sub := range []string{"um", "shared", "winrt"} {
		env.IncludePaths = append(env.IncludePaths, filepath.Join(sdkInclude, sub))
	}

	return nil
}

// findKit reads the root directory of a Windows kit from the registry and
// returns it along with the latest installed version which has a `lib/<version>/<component>`
// directory.
func findKit(keyPath, valueName, component string) (string, string, bool) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, registry.QUERY_VALUE)
	if err != nil {
		return "", "", false
	}
	defer k.Close()

	rootDir, _, err := k.GetStringValue(valueName)
	if err != nil {
		return "", "", false
	}

	libDir := filepath.Join(rootDir, "lib")

	entries, err := os.ReadDir(libDir)
	if err != nil {
		return "", "", false
	}

	var maxVersion string
	var maxN uint64
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "10.") {
			continue
		}

		if _, err := os.Stat(filepath.Join(libDir, entry.Name(), component)); err != nil {
			continue
		}

		n, err := versionInt(entry.Name())
		if err != nil {
			continue
		}

		if maxVersion == "" || n > maxN {
			maxVersion, maxN = entry.Name(), n
		}
	}

	return rootDir, maxVersion, maxVersion != ""
}
