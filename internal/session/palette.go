package session

// QuickColors are the single-key note colors.
var QuickColors = map[string]string{
	"yellow": "#f2bb1d",
	"blue":   "#4d6aa8",
	"green":  "#406358",
	"red":    "#ac443a",
	"white":  "#ffffff",
	"black":  "#000000",
}

// Palette is the Le Corbusier color chart offered by the color picker.
var Palette = [4][16]string{
	{"#000000", "#eadbc0", "#5e6061", "#929494", "#a7a8a5", "#bcbbb6", "#4d6aa8", "#8fabc9", "#abbdc8", "#b6c6ce", "#d9e1dd", "#3e6e90", "#679dae", "#8ab5ba", "#a8c4c1", "#c6d5cc"},
	{"#406e58", "#91afa1", "#becbb7", "#3e6f42", "#7fa25a", "#abc17a", "#c4d39b", "#eacfa6", "#d46c40", "#dc8d67", "#eacfb9", "#9b3738", "#e6cdbf", "#8f3a43", "#943a4d", "#d6afa6"},
	{"#8b4d3e", "#cd9886", "#dbbeaa", "#68443c", "#b67b66", "#d8b29a", "#e2cbb5", "#4c423d", "#b7a392", "#5a5550", "#928a7e", "#b7ac9d", "#ac443a", "#eae4d7", "#dba3af", "#744438"},
	{"#3a3b3b", "#b8a136", "#428f70", "#81868b", "#403c3a", "#3957a5", "#dbb07f", "#74393b", "#7aa7cb", "#92969a", "#ddbf99", "#45423e", "#c45e3a", "#313d6b", "#60646a", "#f2bb1d"},
}

// DefaultCustomColors seeds the nine user color slots.
func DefaultCustomColors() []string {
	return []string{
		Palette[1][8], Palette[0][7], Palette[1][4],
		Palette[3][1], Palette[2][14], Palette[0][11],
		Palette[1][11], Palette[3][2], Palette[2][7],
	}
}
