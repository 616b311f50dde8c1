//go:build !govips || !cgo

package export

func Startup() error {
	return nil
}

func Shutdown() {}

func newEncoder() (Encoder, error) {
	return stdlibEncoder{}, nil
}
