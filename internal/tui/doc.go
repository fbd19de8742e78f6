// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal front end of the whispee client.
//
// [Adapter] receives every session state change and hands it to the Bubble
// Tea program in order. [ViewStateFor] turns a state into what the screens
// need: whether to show a loader, whether the forms accept input, which
// error to show and where to navigate. Screens never read the session
// directly.
//
// Flow: the start screen asks for a username or email and looks it up. A
// known account opens the login form, an unknown one opens the register
// form pre-filled with what was typed. A successful login, registration or
// resume opens the home screen, which shows the user and the session id.
package tui
