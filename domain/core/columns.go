package core

// Canonical column names used by the analysis workbooks.
const (
	DepthColumn     = "Depth [mbsf]"
	SedRateColumn   = "Sedimentation Rate [m/Ma]"
	MagnetiteColumn = "Magnetite [ppm]"
	AgeColumn       = "Age [Ma]"
	SampleColumn    = "Sample"
)
