// Package watch re-runs work when a file changes on disk.
//
// File(ctx, path, onChange) wraps an fsnotify watcher around a single path.
// It handles the rename→create pattern used by atomic-save editors (vim,
// VS Code) by re-adding the watch after every event.
package watch
