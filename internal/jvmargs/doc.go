// Package jvmargs builds the ordered JVM option list used to create the
// embedded JVM. Options are emitted in four phases: user prepend flags,
// required options (library path, class path, logging configuration),
// optional options (debugger agent) and user append flags. The JVM lets a
// later option override an earlier one, so the order is part of the contract.
package jvmargs
