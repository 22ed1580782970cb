package contracts

const (
	DefaultWorkers = 8

	DecoderVips    = "vips"
	DecoderImagick = "imagick"
)

type InputFlags struct {
	InputRoot string `mapstructure:"-"`
	Workers   int    `mapstructure:"workers"`
	Decoder   string `mapstructure:"decoder"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Progress  bool   `mapstructure:"progress"`
}
