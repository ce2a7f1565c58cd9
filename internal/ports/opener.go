package ports

// FolderOpener shows a directory in the platform file manager
type FolderOpener interface {
	OpenFolder(dir string) error
}
