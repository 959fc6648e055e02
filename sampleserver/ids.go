// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

const locale = "en-US"
