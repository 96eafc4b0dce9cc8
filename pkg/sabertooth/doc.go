// Package sabertooth drives USB Sabertooth motor drivers over packet serial.
//
// A Serial owns one line and at most one outstanding get request. Set
// commands are sent immediately. Get requests are armed by AsyncGet and
// advanced by Poll, which never blocks: it sends the request when the poll
// interval expires, collects reply bytes as they arrive, and reports the
// value, a mismatch or a timeout. Get is a blocking wrapper around the two.
//
// Several Drivers, one per address, may share a Serial.
package sabertooth
