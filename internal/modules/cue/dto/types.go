package dto

type PluginInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Cues    []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type AttachInput struct {
	PluginName string
}
