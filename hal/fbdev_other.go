//go:build !linux

package hal

import "errors"

func openFBDev(_ string, _ []Mode) (deviceFramebuffer, error) {
	return nil, errors.New("framebuffer devices require linux")
}
