package ffmpeg

import (
	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/five82/video2gif/internal/config"
)

// TierJob holds everything needed to run both passes for one tier.
type TierJob struct {
	Tier         config.Tier
	Input        string
	PalettePath  string
	OutputPath   string
	Width        int
	Height       int
	FPS          int
	ColorDepth   int
	DitherMethod string
}

// PaletteArgs builds the first pass: derive a palette capped at the tier's
// color depth and write it to the palette image.
func PaletteArgs(job TierJob) []string {
	in := ffmpeggo.Input(job.Input)
	return paletteGen(videoChain(in, job), job.ColorDepth).
		Output(job.PalettePath).
		OverWriteOutput().
		GetArgs()
}

// EncodeArgs builds the second pass: apply the generated palette with the
// tier's dithering algorithm and write the GIF.
func EncodeArgs(job TierJob) []string {
	video := videoChain(ffmpeggo.Input(job.Input), job)
	palette := ffmpeggo.Input(job.PalettePath)
	return paletteUse(video, palette, job.DitherMethod).
		Output(job.OutputPath).
		OverWriteOutput().
		GetArgs()
}
