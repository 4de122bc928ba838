package ffmpeg

import (
	"strconv"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// ScaleFlags is the resampling filter used for every tier.
const ScaleFlags = "lanczos"

// videoChain resamples the input to the tier frame rate and scales it.
// A zero width or height keeps the source value, which covers sources whose
// dimensions could not be probed.
func videoChain(input *ffmpeggo.Stream, job TierJob) *ffmpeggo.Stream {
	return input.
		Filter("fps", ffmpeggo.Args{strconv.Itoa(job.FPS)}).
		Filter("scale",
			ffmpeggo.Args{strconv.Itoa(job.Width), strconv.Itoa(job.Height)},
			ffmpeggo.KwArgs{"flags": ScaleFlags},
		)
}

func paletteGen(s *ffmpeggo.Stream, colors int) *ffmpeggo.Stream {
	return s.Filter("palettegen", ffmpeggo.Args{}, ffmpeggo.KwArgs{"max_colors": strconv.Itoa(colors)})
}

func paletteUse(video, palette *ffmpeggo.Stream, dither string) *ffmpeggo.Stream {
	return ffmpeggo.Filter(
		[]*ffmpeggo.Stream{video, palette},
		"paletteuse",
		ffmpeggo.Args{},
		ffmpeggo.KwArgs{"dither": dither},
	)
}
