package contracts

type InputFlags struct {
	InputPath    string
	OutputDir    string
	Algorithm    string
	OutputFormat OutputFormat
	Resample     string
	Width        int
	DeviceDPI    int
	Merge        bool
}
