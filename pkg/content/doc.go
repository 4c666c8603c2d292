/*
Package content provides the knock-knock content tables: the built-in
default and tables loaded from YAML, JSON or Hjson files.

A table file looks like:

	opening: "Knock! Knock!"   # optional
	termination: "Bye."        # optional
	affirmative: "y"           # optional
	repeat: skip               # skip | reopen, optional
	entries:
	  - setup: Turnip
	    punchline: Turnip the heat, it's cold in here! Want another? (y/n)
*/
package content
