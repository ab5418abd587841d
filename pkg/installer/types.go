package installer

import (
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/project"
)

// Install phases reported through Hooks.
const (
	PhaseResolving  = "resolving"
	PhaseCache      = "cache"
	PhaseFetching   = "fetching"
	PhaseInstalling = "installing"
	PhaseWriting    = "writing"
	PhaseSaving     = "saving"
	PhaseDone       = "done"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string
	ID    string
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

func (h Hooks) emit(phase, id, msg string) {
	if h.OnEvent != nil {
		h.OnEvent(Event{Phase: phase, ID: id, Msg: msg})
	}
}

// Outcome tells what an install did.
type Outcome int

const (
	// Installed means the files and manifest were written.
	Installed Outcome = iota
	// AlreadyInstalled means the target existed and nothing was touched.
	AlreadyInstalled
)

func (o Outcome) String() string {
	if o == AlreadyInstalled {
		return "already installed"
	}
	return "installed"
}

// SaveMode selects the package.json section updated after an install.
type SaveMode int

// Save modes.
const (
	SaveNone SaveMode = iota
	SaveProd
	SaveDev
)

// Section returns the package.json section for the mode.
func (m SaveMode) Section() project.Section {
	if m == SaveDev {
		return project.DevDependencies
	}
	return project.Dependencies
}

// InstallRequest describes one install.
type InstallRequest struct {
	Spec    model.PackageSpec
	Global  bool
	Force   bool
	NoCache bool
	Save    SaveMode
}

// InstallResult describes a finished install.
type InstallResult struct {
	Descriptor  *model.Descriptor
	InstallInfo *model.InstallInfo
	Dir         string
	Outcome     Outcome
	FromCache   bool
	Files       int
	SavedTo     project.Section
}
