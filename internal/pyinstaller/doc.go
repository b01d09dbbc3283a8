// Package pyinstaller owns the packaging subprocess: it launches
// `python -m PyInstaller` with composed arguments, folds stderr into stdout
// so the transcript keeps pipe order, and terminates the whole process tree
// on cancellation (job objects on Windows, process groups elsewhere).
package pyinstaller
