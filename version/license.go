/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package version

// License identifies a well-known open-source license used to derive
// a human name, a short legal notice and a boilerplate header.
type License uint8

const (
	License_MIT License = iota
	License_GNU_GPL_v3
	License_GNU_Affero_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_Mozilla_PL_v2
	License_Apache_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

func (l License) Name() string {
	switch l {
	case License_MIT:
		return "MIT License"
	case License_GNU_GPL_v3:
		return "GNU GENERAL PUBLIC LICENSE, Version 3"
	case License_GNU_Affero_GPL_v3:
		return "GNU AFFERO GENERAL PUBLIC LICENSE, Version 3"
	case License_GNU_Lesser_GPL_v3:
		return "GNU LESSER GENERAL PUBLIC LICENSE, Version 3"
	case License_Mozilla_PL_v2:
		return "Mozilla Public License, Version 2.0"
	case License_Apache_v2:
		return "Apache License, Version 2.0"
	case License_Unlicense:
		return "Free and unencumbered software"
	case License_Creative_Common_Zero_v1:
		return "Creative Commons CC0 1.0 Universal"
	case License_Creative_Common_Attribution_v4_int:
		return "Creative Commons Attribution 4.0 International"
	case License_Creative_Common_Attribution_Share_Alike_v4_int:
		return "Creative Commons Attribution-ShareAlike 4.0 International"
	case License_SIL_Open_Font_1_1:
		return "SIL OPEN FONT LICENSE, Version 1.1"
	}

	return ""
}

func (l License) Legal() string {
	switch l {
	case License_MIT:
		return "Permission is hereby granted, free of charge, to any person obtaining a copy of this software to deal in the Software without restriction, subject to inclusion of the above copyright notice."
	case License_GNU_GPL_v3, License_GNU_Affero_GPL_v3, License_GNU_Lesser_GPL_v3:
		return "This program is free software: you can redistribute it and/or modify it under the terms of the " + l.Name() + " as published by the Free Software Foundation."
	case License_Mozilla_PL_v2:
		return "This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0."
	case License_Apache_v2:
		return "Licensed under the Apache License, Version 2.0 (the \"License\"); you may not use this file except in compliance with the License."
	case License_Unlicense:
		return "This is free and unencumbered software released into the public domain."
	case License_Creative_Common_Zero_v1:
		return "The person who associated a work with this deed has dedicated the work to the public domain by waiving all of his or her rights to the work worldwide under copyright law."
	case License_Creative_Common_Attribution_v4_int, License_Creative_Common_Attribution_Share_Alike_v4_int:
		return "This work is licensed under the " + l.Name() + " License."
	case License_SIL_Open_Font_1_1:
		return "This Font Software is licensed under the " + l.Name() + "."
	}

	return ""
}

// Boiler returns a short boilerplate header suitable for prefixing a
// CLI's --license output. It is deliberately shorter than Legal.
func (l License) Boiler() string {
	return l.Name() + "\n\n" + l.Legal()
}
