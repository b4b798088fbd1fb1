package nsis

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/skywarr/relpack/internal/models"
)

const uninstallKey = `Software\Microsoft\Windows\CurrentVersion\Uninstall\`

var scriptTemplate = template.Must(template.New("installer.nsi").Parse(`
; {{.Product}} Windows Installer Script

!include "MUI2.nsh"

; General settings
Name "{{.DisplayName}}"
OutFile "{{.OutFile}}"
InstallDir "{{.InstallDir}}"
RequestExecutionLevel admin

; Interface Settings
!define MUI_ABORTWARNING

; Pages
!insertmacro MUI_PAGE_WELCOME
!insertmacro MUI_PAGE_DIRECTORY
!insertmacro MUI_PAGE_INSTFILES
!insertmacro MUI_PAGE_FINISH

; Languages
!insertmacro MUI_LANGUAGE "English"

; Installer sections
Section "Install"
  SetOutPath "$INSTDIR"

  ; Copy files
  File /r "{{.Source}}\*.*"

  ; Create shortcuts
  CreateDirectory "$SMPROGRAMS\{{.Product}}"
  CreateShortcut "$SMPROGRAMS\{{.Product}}\{{.Product}}.lnk" "$INSTDIR\{{.Executable}}"
  CreateShortcut "$DESKTOP\{{.Product}}.lnk" "$INSTDIR\{{.Executable}}"

  ; Create uninstaller
  WriteUninstaller "$INSTDIR\Uninstall.exe"

  ; Create registry entries
  WriteRegStr HKLM "{{.RegKey}}" "DisplayName" "{{.DisplayName}}"
  WriteRegStr HKLM "{{.RegKey}}" "UninstallString" "$INSTDIR\Uninstall.exe"
SectionEnd

; Uninstaller section
Section "Uninstall"
  ; Remove files
  RMDir /r "$INSTDIR"

  ; Remove shortcuts
  Delete "$SMPROGRAMS\{{.Product}}\{{.Product}}.lnk"
  RMDir "$SMPROGRAMS\{{.Product}}"
  Delete "$DESKTOP\{{.Product}}.lnk"

  ; Remove registry entries
  DeleteRegKey HKLM "{{.RegKey}}"
SectionEnd
`))

type scriptData struct {
	Product     string
	DisplayName string
	OutFile     string
	InstallDir  string
	Source      string
	Executable  string
	RegKey      string
}

// GenerateScript renders the installer script. source is the staged payload
// directory relative to the script's directory; outFile is the installer
// file name.
func GenerateScript(m models.PackageManifest, source, outFile string) ([]byte, error) {
	product := escape(m.Product)

	data := scriptData{
		Product:     product,
		DisplayName: escape(m.DisplayName),
		OutFile:     escape(outFile),
		// InstallDir may reference NSIS variables such as $PROGRAMFILES
		InstallDir: strings.ReplaceAll(m.InstallDir, `"`, `$\"`),
		Source:     escape(strings.TrimRight(strings.ReplaceAll(source, "/", `\`), `\`)),
		Executable: escape(m.Executable),
		RegKey:     uninstallKey + product,
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// escape makes s safe inside a double-quoted NSIS string
func escape(s string) string {
	r := strings.NewReplacer(
		"$", "$$",
		`"`, `$\"`,
		"\r", "",
		"\n", " ",
	)
	return r.Replace(s)
}
