package assets

import "embed"

// Content holds the files shipped inside the binary.
//
//go:embed toasts.yaml
var Content embed.FS

// ToastTablePath is the name of the toast table inside Content.
const ToastTablePath = "toasts.yaml"
