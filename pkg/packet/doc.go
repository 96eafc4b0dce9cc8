// Package packet provides the wire format of Sabertooth packet serial.
package packet

// Packet serial is a half-duplex protocol over a point-to-point serial line.
// Every frame starts with an address byte (0x80..0x87) which is the only
// byte with the top bit set, except for the command code of frames protected
// by CRC. All other bytes, including values, are 7-bit.
//
// Request: [address][command][header code][data...][data code]
// Reply:   [address][command][flags][header code][lo][hi][type][number][data code]
//
// A frame is protected either by 7-bit checksums, or by CRC7 over the header
// and CRC14 over the data. CRC frames have 0x70 added to the command code.
//
// Producer of requests: host
// Producer of replies: motor driver
