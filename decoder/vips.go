package decoder

import (
	"fmt"
	"os"

	"github.com/davidbyttow/govips/v2/vips"
	"go.uber.org/zap"

	"heic2jpg/contracts"
)

type Vips struct {
	log *zap.Logger
}

func NewVips(log *zap.Logger) (*Vips, func(), error) {
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			log.Error(msg, zap.String("domain", domain))
		case vips.LogLevelWarning:
			log.Warn(msg, zap.String("domain", domain))
		default:
			log.Debug(msg, zap.String("domain", domain))
		}
	}, vips.LogLevelWarning)
	vips.Startup(nil)

	return &Vips{log: log}, vips.Shutdown, nil
}

func (v *Vips) Decode(path string) (*contracts.DecodedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("vips load: %w", err)
	}
	defer img.Close()

	if img.Format() != vips.ImageTypeHEIF {
		return nil, fmt.Errorf("%w: not a HEIF container", ErrUnsupported)
	}

	if img.Bands() >= 3 && img.Interpretation() != vips.InterpretationSRGB {
		if err := img.ToColorSpace(vips.InterpretationSRGB); err != nil {
			return nil, fmt.Errorf("vips colourspace: %w", err)
		}
	}
	if img.BandFormat() != vips.BandFormatUchar {
		if err := img.Cast(vips.BandFormatUchar); err != nil {
			return nil, fmt.Errorf("vips cast: %w", err)
		}
	}

	mode, err := modeForBands(img.Bands())
	if err != nil {
		return nil, err
	}
	pixels, err := img.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("vips export pixels: %w", err)
	}

	v.log.Debug("decoded",
		zap.String("path", path),
		zap.String("mode", mode),
		zap.Int("width", img.Width()),
		zap.Int("height", img.Height()),
	)

	return &contracts.DecodedImage{
		Mode:     mode,
		Width:    img.Width(),
		Height:   img.Height(),
		Stride:   img.Width() * img.Bands(),
		Pixels:   pixels,
		Metadata: exifBlocks(data),
	}, nil
}
