// Package ui provides constants for layout calculations and configuration.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// TextareaHeight is the number of lines for the input textarea
	TextareaHeight = 3

	// InputStatusHeight is the line above the textarea showing attachments,
	// the recording or the reply target
	InputStatusHeight = 1

	// InputPaddingWidth is the horizontal padding inside the input area (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the input area (status + textarea + borders)
	InputTotalHeight = InputStatusHeight + TextareaHeight + BorderSize

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight bound layout calculations
	MinTerminalWidth  = 40
	MinTerminalHeight = 12

	// BubbleWidthRatio caps message width at 3/4 of the list
	BubbleWidthRatio = 4
)

// Message list behavior
const (
	// ScrollWheelDelta is the number of lines scrolled per mouse wheel tick
	ScrollWheelDelta = 3

	// WaveformMaxBars is the number of bars drawn for a recording
	WaveformMaxBars = 48
)
