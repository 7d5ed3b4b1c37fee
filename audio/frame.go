// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Frame is a batch of PCM samples. Interleaved formats keep every channel
// in Planes[0]; planar formats have one plane per channel.
//
// A Frame is scratch space: it is reused across iterations and owned by
// whichever stage currently fills or reads it.
type Frame struct {
	Format     SampleFormat
	SampleRate int
	Layout     ChannelLayout
	// Samples is the number of valid samples per channel.
	Samples int
	// Capacity is the number of samples per channel the planes can hold.
	Capacity int
	PTS      int64
	Planes   [][]byte
}

// NewFrame allocates a frame able to hold capacity samples per channel.
func NewFrame(format SampleFormat, layout ChannelLayout, sampleRate, capacity int) (*Frame, error) {
	f := &Frame{}
	if err := f.Alloc(format, layout, sampleRate, capacity); err != nil {
		return nil, err
	}
	return f, nil
}

// Channels returns the number of channels carried by the frame.
func (f *Frame) Channels() int { return f.Layout.Channels() }

// PlaneCount returns the number of planes the format requires.
func (f *Frame) PlaneCount() int {
	if f.Format.IsPlanar() {
		return f.Channels()
	}
	return 1
}

// PlaneSize returns the number of valid bytes in each plane.
func (f *Frame) PlaneSize() int {
	size := f.Samples * f.Format.BytesPerSample()
	if !f.Format.IsPlanar() {
		size *= f.Channels()
	}
	return size
}

// Alloc (re)allocates the frame's planes. Existing buffers are reused when
// they are large enough.
func (f *Frame) Alloc(format SampleFormat, layout ChannelLayout, sampleRate, capacity int) error {
	if !format.Valid() {
		return fmt.Errorf("%w: format %s", ErrFrameAllocation, format)
	}
	if layout.Channels() == 0 || capacity <= 0 {
		return fmt.Errorf("%w: %d channels, capacity %d", ErrFrameAllocation, layout.Channels(), capacity)
	}

	f.Format = format
	f.Layout = layout
	f.SampleRate = sampleRate
	f.Capacity = capacity
	f.Samples = 0
	f.PTS = 0

	planes := f.PlaneCount()
	size := capacity * format.BytesPerSample()
	if !format.IsPlanar() {
		size *= layout.Channels()
	}

	if cap(f.Planes) < planes {
		f.Planes = make([][]byte, planes)
	}
	f.Planes = f.Planes[:planes]
	for i := range f.Planes {
		if cap(f.Planes[i]) < size {
			f.Planes[i] = make([]byte, size)
		}
		f.Planes[i] = f.Planes[i][:size]
	}
	return nil
}

// Reset marks the frame empty without releasing its buffers.
func (f *Frame) Reset() {
	f.Samples = 0
	f.PTS = 0
}

// Silence zeroes samples [from, to) of every channel.
func (f *Frame) Silence(from, to int) {
	if to > f.Capacity {
		to = f.Capacity
	}
	if from >= to {
		return
	}

	width := f.Format.BytesPerSample()
	if !f.Format.IsPlanar() {
		width *= f.Channels()
	}
	var fill byte
	if f.Format.Packed() == U8 {
		fill = u8Bias
	}
	for _, plane := range f.Planes {
		region := plane[from*width : to*width]
		for i := range region {
			region[i] = fill
		}
	}
}
