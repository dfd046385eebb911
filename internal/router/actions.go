package router

import "github.com/Firstp1ck/Pacsea-sub003/internal/model"

// DeleteFromList implements the Delete/"install_remove" chord (spec
// §4.8): removes the item at idx, marks the list dirty, and clamps the
// selection cursor. onListChanged, if non-nil, is invoked only when
// list is the Install list, signalling the caller (the Background
// Coordinator) to invalidate the signature-keyed deps/files caches and
// abandon any in-flight resolver for the old signature.
func DeleteFromList(list *model.PackageList, idx int, isInstallList bool, onListChanged func()) bool {
	if !list.RemoveAt(idx) {
		return false
	}
	if isInstallList && onListChanged != nil {
		onListChanged()
	}
	return true
}

// EnterResult describes what the Install pane's Enter chord should do
// (spec §4.8, §8 S3).
type EnterResult struct {
	OpenPreflight bool
	Preflight     *model.PreflightState
	EmitInstall   bool
}

// HandleInstallEnter implements S3: pressing Enter while the Install
// pane has focus opens a Preflight modal on the Summary tab with a
// frozen clone of the install list's items, unless skipPreflight is
// set, in which case the install action is emitted directly without a
// modal. An empty install list does nothing.
func HandleInstallEnter(list *model.PackageList, skipPreflight bool) EnterResult {
	if len(list.Items) == 0 {
		return EnterResult{}
	}
	if skipPreflight {
		return EnterResult{EmitInstall: true}
	}
	return EnterResult{
		OpenPreflight: true,
		Preflight:     model.NewPreflightState(model.ActionInstall, list.Items),
	}
}
