// SPDX-License-Identifier: EPL-2.0

package audio

// Remix appends the channels of src, laid out as srcLayout, to dst laid
// out as dstLayout and returns the extended slices. All src channels must
// hold the same number of samples.
//
// Rules, in order: identical layouts are copied; a mono target averages
// every source channel; a mono source is duplicated into every target
// channel; otherwise each target role takes the matching source role, a
// missing centre is the average of front left and right, and any other
// missing role is silent.
func Remix(dst, src [][]float32, srcLayout, dstLayout ChannelLayout) ([][]float32, error) {
	if len(src) != srcLayout.Channels() || len(dst) != dstLayout.Channels() {
		return dst, ErrChannelMismatch
	}
	if len(src) == 0 {
		return dst, nil
	}
	frames := len(src[0])

	switch {
	case srcLayout == dstLayout:
		for c := range src {
			dst[c] = append(dst[c], src[c]...)
		}

	case len(dst) == 1:
		dst[0] = mixDown(dst[0], src, frames)

	case len(src) == 1:
		for c := range dst {
			dst[c] = append(dst[c], src[0]...)
		}

	default:
		for c, role := range dstLayout.Roles() {
			if i := srcLayout.Index(role); i >= 0 {
				dst[c] = append(dst[c], src[i]...)
				continue
			}

			l, r := srcLayout.Index(FrontLeft), srcLayout.Index(FrontRight)
			if role == FrontCenter && l >= 0 && r >= 0 {
				for f := range frames {
					dst[c] = append(dst[c], (src[l][f]+src[r][f])*0.5)
				}
				continue
			}

			dst[c] = append(dst[c], make([]float32, frames)...)
		}
	}

	return dst, nil
}

// mixDown averages every channel of src into one channel.
func mixDown(dst []float32, src [][]float32, frames int) []float32 {
	channels := len(src)
	invChannels := float32(1.0) / float32(channels)

	// Unrolled loop for common cases
	switch channels {
	case 2: // Stereo (most common)
		l, r := src[0], src[1]
		for f := range frames {
			dst = append(dst, (l[f]+r[f])*0.5)
		}
	case 4: // Quad
		for f := range frames {
			sum := src[0][f] + src[1][f] + src[2][f] + src[3][f]
			dst = append(dst, sum*0.25)
		}
	default: // Generic path
		for f := range frames {
			sum := float32(0)
			for c := range channels {
				sum += src[c][f]
			}
			dst = append(dst, sum*invChannels)
		}
	}

	return dst
}
